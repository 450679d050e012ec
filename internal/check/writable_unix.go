//go:build unix

package check

import "golang.org/x/sys/unix"

// writable asks the kernel whether the current user may create entries in dir.
func writable(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}
