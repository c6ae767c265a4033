package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// File is a single entry of an archive.
type File struct {
	Name string
	Data []byte
}

// WriteZip writes files to w as a deflated zip archive, in the given order.
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	modified := time.Now().UTC()

	for _, f := range files {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// Zip returns files as an in-memory zip archive.
func Zip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
