package naming

import "strings"

// ReservedChars are replaced by [Sanitize]: the characters invalid in Windows
// filenames plus '&' and space.
const ReservedChars = `<>:"/\|?*& `

var reservedReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(ReservedChars))
	for _, r := range ReservedChars {
		pairs = append(pairs, string(r), "_")
	}
	return strings.NewReplacer(pairs...)
}()

// Sanitize trims surrounding whitespace and replaces each reserved character
// with an underscore.
func Sanitize(s string) string {
	return reservedReplacer.Replace(strings.TrimSpace(s))
}

// Separator joins the model and version segments.
const Separator = "__"

// BaseName returns the canonical base (no extension) for a model version.
// id is included only when non-empty.
func BaseName(model, version, id string) string {
	var b strings.Builder
	b.WriteString(Sanitize(model))
	if id != "" {
		b.WriteByte('_')
		b.WriteString(Sanitize(id))
	}
	b.WriteString(Separator)
	b.WriteString(Sanitize(version))
	return b.String()
}

// FileName joins a base and an extension (without leading dot).
func FileName(base, ext string) string {
	return base + "." + ext
}

// SplitGroupName returns the extension of name relative to a file group base,
// i.e. everything after "<base>.". ok is false when name is not in the group.
func SplitGroupName(name, base string) (ext string, ok bool) {
	prefix := base + "."
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}
	return name[len(prefix):], true
}
