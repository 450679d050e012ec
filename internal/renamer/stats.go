package renamer

// StatusDone is the status of a run that processed every sidecar.
const StatusDone = "Done"

// StatusInterrupted is the status of a run cancelled between groups.
const StatusInterrupted = "Interrupted"

// Summary tracks aggregate counters across a run. Status is the short,
// human-readable result returned to the trigger.
type Summary struct {
	Status string

	Total     int // Sidecars discovered.
	Current   int // Sidecars processed so far.
	Groups    int // Groups with at least one file renamed.
	Renamed   int // Files renamed.
	Unchanged int // Groups already carrying their canonical name.
	Skipped   int // Groups left alone (existing target, duplicate kept, vanished sidecar).
	Invalid   int // Sidecars without usable model name or version.
	Conflicts int // Single files skipped because their target name exists.

	Duplicates   int   // Groups whose id already exists under the canonical name.
	Removed      int   // Files removed from duplicate groups.
	RemovedBytes int64 // Bytes removed (or moved to trash).

	Interrupted bool
}

// Changed reports whether the run touched the filesystem (or would have, in a dry run).
func (s *Summary) Changed() bool {
	return s.Renamed > 0 || s.Removed > 0
}
