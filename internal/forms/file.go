package forms

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFile is a file on disk picked for upload. The size is captured at
// selection time and bounds how many bytes are sent.
type LocalFile struct {
	path string
	name string
	size int64
}

// OpenLocalFile stats path and returns a handle named after its base name.
func OpenLocalFile(path string) (*LocalFile, error) {
	return OpenLocalFileAs(path, filepath.Base(path))
}

// OpenLocalFileAs is OpenLocalFile with an explicit display name, used for
// browser uploads spooled to temporary files.
func OpenLocalFileAs(path, name string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &LocalFile{path: path, name: name, size: info.Size()}, nil
}

func (f *LocalFile) Name() string {
	return f.name
}

func (f *LocalFile) Size() int64 {
	return f.size
}

func (f *LocalFile) Path() string {
	return f.path
}

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
