// Package renamer walks a LoRA directory, reads each CivitAI metadata sidecar,
// and renames the sidecar's file group to its canonical name, disambiguating
// by upstream id or removing exact duplicates.
//
// Per sidecar the decision is one of:
//
//	keep       the group already has its canonical name
//	rename     move every group file to <model>__<version>.<ext>
//	qualify    the canonical name belongs to another id; rename to <model>_<id>__<version>.<ext>
//	duplicate  the canonical name holds the same id; remove the group or leave it alone
//	skip       unusable metadata, or a clash that cannot be disambiguated
//
// Files are processed sequentially; the context is only checked between groups.
package renamer
