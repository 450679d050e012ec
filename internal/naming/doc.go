// Package naming provides filename sanitization, canonical LoRA filename
// assembly, and in-run target claims.
//
// Canonical names have the form
//
//	<model>[_<id>]__<version>.<ext>
//
// where every component is passed through [Sanitize] and the id segment is
// only present when the plain name is already taken by a different upstream
// model version.
package naming
