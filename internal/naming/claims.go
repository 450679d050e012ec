package naming

import (
	"path/filepath"
	"sync"
)

// Claims tracks paths vacated and occupied during a run that did not touch
// the disk (dry run), so later collision checks see the same state a real run
// would. Each claimed path records the upstream id of the group that took it.
// All methods are goroutine-safe.
type Claims struct {
	mu      sync.Mutex
	owners  map[string]string // path → upstream id of the claiming group
	vacated map[string]bool
}

// NewClaims creates a ready-to-use tracker.
func NewClaims() *Claims {
	return &Claims{
		owners:  make(map[string]string),
		vacated: make(map[string]bool),
	}
}

// Move records that from was renamed to to by the group with upstream id.
func (c *Claims) Move(from, to, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from, to = filepath.Clean(from), filepath.Clean(to)
	delete(c.owners, from)
	c.vacated[from] = true
	delete(c.vacated, to)
	c.owners[to] = id
}

// Vacate records that path was removed.
func (c *Claims) Vacate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	delete(c.owners, path)
	c.vacated[path] = true
}

// Lookup reports what the tracker knows about path. known is false when the
// run has not touched path and the disk is authoritative; otherwise exists
// tells whether the path is occupied and id who occupies it.
func (c *Claims) Lookup(path string) (id string, exists, known bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	if id, ok := c.owners[path]; ok {
		return id, true, true
	}
	if c.vacated[path] {
		return "", false, true
	}
	return "", false, false
}
