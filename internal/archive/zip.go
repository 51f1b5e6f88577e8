// Package archive packs generation results into downloadable zip archives.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"pixelforge/internal/generate"
)

var ErrNothingToArchive = errors.New("archive: result has no code")

// projectFiles flattens a code output to its file list; single documents
// become a lone index.html.
func projectFiles(code generate.CodeOutput) []generate.GeneratedFile {
	switch code.Shape() {
	case generate.ShapeDocument:
		return []generate.GeneratedFile{{Path: "index.html", Content: code.Document()}}
	case generate.ShapeFileList:
		return code.Files()
	}
	return nil
}

// Write streams a zip of the result's files. Entries keep their
// slash-separated paths and share one timestamp so archives are
// reproducible for identical content.
func Write(w io.Writer, code generate.CodeOutput, stamp time.Time) error {
	files := projectFiles(code)
	if len(files) == 0 {
		return ErrNothingToArchive
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: stamp,
		}
		entry, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("archive: create %s: %w", f.Path, err)
		}
		if _, err := io.WriteString(entry, f.Content); err != nil {
			return fmt.Errorf("archive: write %s: %w", f.Path, err)
		}
	}
	return zw.Close()
}

// Bytes is Write into a fresh buffer.
func Bytes(code generate.CodeOutput, stamp time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, code, stamp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
