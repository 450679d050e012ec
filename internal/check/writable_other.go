//go:build !unix

package check

import "os"

func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".lorarenamer-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
