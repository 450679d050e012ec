package renamer

import (
	"github.com/backmassage/lorarenamer/internal/display"
)

func (r *Renamer) logBatchHeader(root string, s *Summary) {
	r.log.Info("Found %s %s in %s", display.FormatCount(s.Total),
		display.Plural(s.Total, "sidecar", "sidecars"), root)
	if r.opts.RemovalMode != "" {
		r.log.Info("Duplicates: %s", r.opts.RemovalMode)
	}
	if r.opts.DryRun {
		r.log.Warn("DRY RUN: nothing will be renamed or removed")
	}
}

func (r *Renamer) logSummary(s *Summary) {
	r.log.Info("==============================")
	r.log.Info("%s: %d renamed (%d %s), %d unchanged, %d skipped, %d invalid",
		s.Status, s.Renamed, s.Groups, display.Plural(s.Groups, "group", "groups"),
		s.Unchanged, s.Skipped, s.Invalid)
	if s.Conflicts > 0 {
		r.log.Warn("  %d %s skipped because the target name exists", s.Conflicts,
			display.Plural(s.Conflicts, "file", "files"))
	}
	if s.Duplicates > 0 {
		r.log.Info("  Duplicates found: %d", s.Duplicates)
	}
	if s.Removed > 0 {
		r.log.Success("  Removed %d %s (%s)", s.Removed,
			display.Plural(s.Removed, "file", "files"), display.FormatBytes(s.RemovedBytes))
	}
	if !s.Changed() {
		r.log.Success("  Nothing to do")
	}
}
