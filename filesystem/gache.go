package filesystem

import (
	"io"
	"os"
)

// GacheFs lets gache persist through the swappable backend, so catalog and
// version caches land in the in-memory filesystem under test.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
