// Package site implements the artifact lifecycle: archive ingestion,
// content resolution for serving, and expiry reclamation.
package site

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/sitebox/sitebox/pkg/sberr"
)

// Entry is one member of an uploaded archive, held in memory during
// ingestion. Name uses forward slashes and is relative to the archive
// root.
type Entry struct {
	Name  string
	IsDir bool
	Data  []byte
}

// ParseZip reads an uploaded archive fully held in memory. It fails with
// a bad_request code when data is not a zip container, when any entry
// name would traverse out of the extraction root, or when the summed
// decompressed size exceeds maxDecompressed (the ceiling applies to
// decompressed bytes, not just the upload size, so a small bomb cannot
// amplify past it).
func ParseZip(data []byte, maxDecompressed int64) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, sberr.Newf(sberr.CodeBadRequest, "not a valid zip archive: %v", err)
	}

	var entries []Entry
	var total int64

	for _, f := range r.File {
		name := path.Clean(strings.ReplaceAll(f.Name, `\`, "/"))
		if name == "." {
			continue
		}
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return nil, sberr.Newf(sberr.CodeBadRequest, "archive entry escapes extraction root: %q", f.Name)
		}

		if f.FileInfo().IsDir() {
			entries = append(entries, Entry{Name: name, IsDir: true})
			continue
		}

		total += int64(f.UncompressedSize64)
		if total > maxDecompressed {
			return nil, sberr.Newf(sberr.CodeBadRequest, "archive decompresses past the %d byte limit", maxDecompressed)
		}

		rc, err := f.Open()
		if err != nil {
			return nil, sberr.Newf(sberr.CodeBadRequest, "corrupt archive entry %q: %v", f.Name, err)
		}

		// The declared size above is advisory; the hard limit is
		// enforced while reading.
		content, err := readCapped(rc, maxDecompressed-total+int64(f.UncompressedSize64))
		rc.Close()
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{Name: name, Data: content})
	}

	if len(entries) == 0 {
		return nil, sberr.Newf(sberr.CodeBadRequest, "archive is empty")
	}

	return entries, nil
}

func readCapped(r io.Reader, limit int64) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, sberr.Newf(sberr.CodeBadRequest, "reading archive entry: %v", err)
	}
	if int64(len(content)) > limit {
		return nil, sberr.Newf(sberr.CodeBadRequest, "archive decompresses past the configured limit")
	}
	return content, nil
}

// fileNames returns the names of non-directory entries, in archive order.
func fileNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir {
			names = append(names, e.Name)
		}
	}
	return names
}
