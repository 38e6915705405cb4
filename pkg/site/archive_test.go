package site

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/sitebox/sitebox/pkg/sberr"
)

// zipOf builds an in-memory archive from name->content pairs, preserving
// insertion order.
func zipOf(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseZip(t *testing.T) {
	data := zipOf(t, map[string]string{
		"index.html":    "<h1>hello</h1>",
		"css/style.css": "body{}",
	}, []string{"index.html", "css/style.css"})

	entries, err := ParseZip(data, DefaultMaxUploadBytes)
	if err != nil {
		t.Fatalf("ParseZip failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "index.html" || string(entries[0].Data) != "<h1>hello</h1>" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestParseZipRejectsGarbage(t *testing.T) {
	_, err := ParseZip([]byte("definitely not a zip"), DefaultMaxUploadBytes)
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for non-zip data, got %v", err)
	}
}

func TestParseZipRejectsTraversalNames(t *testing.T) {
	data := zipOf(t, map[string]string{
		"../outside.html": "x",
	}, []string{"../outside.html"})

	_, err := ParseZip(data, DefaultMaxUploadBytes)
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for traversal entry, got %v", err)
	}
}

func TestParseZipEnforcesDecompressedCeiling(t *testing.T) {
	big := make([]byte, 4096)
	data := zipOf(t, map[string]string{
		"a.bin": string(big),
		"b.bin": string(big),
	}, []string{"a.bin", "b.bin"})

	// Both files fit compressed; together they blow the decompressed cap.
	_, err := ParseZip(data, 6000)
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for decompressed overflow, got %v", err)
	}

	if _, err := ParseZip(data, 10000); err != nil {
		t.Errorf("archive under the ceiling should parse: %v", err)
	}
}

func TestParseZipRejectsEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := zip.NewWriter(&buf).Close(); err != nil {
		t.Fatal(err)
	}
	_, err := ParseZip(buf.Bytes(), DefaultMaxUploadBytes)
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for empty archive, got %v", err)
	}
}

func TestValidateEntries(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		allowed bool
	}{
		{"plain html", "index.html", true},
		{"nested asset", "assets/js/app.js", true},
		{"env file at root", ".env", false},
		{"env file nested", "config/.env", false},
		{"env variant", ".env.local", false},
		{"node_modules dir", "node_modules/react/index.js", false},
		{"git dir", ".git/HEAD", false},
		// Substring matching is the documented behavior, false positives
		// included.
		{"name containing .git", "my.github.page.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntries([]Entry{{Name: tt.entry}})
			if tt.allowed && err != nil {
				t.Errorf("%q should pass validation, got %v", tt.entry, err)
			}
			if !tt.allowed && !sberr.IsCode(err, sberr.CodeBadRequest) {
				t.Errorf("%q should be rejected with bad_request, got %v", tt.entry, err)
			}
		})
	}
}
