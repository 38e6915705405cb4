package site

import "testing"

func TestDetectEntryPoint(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{
			name:  "root index wins",
			files: []string{"style.css", "about.html", "index.html"},
			want:  "index.html",
		},
		{
			name:  "first root html when no index",
			files: []string{"style.css", "About.HTML", "other.html"},
			want:  "About.HTML",
		},
		{
			name:  "nested directory index",
			files: []string{"readme.txt", "app/index.html", "other/page.html"},
			want:  "app/index.html",
		},
		{
			name:  "first directory in entry order wins",
			files: []string{"other/page.html", "app/index.html"},
			want:  "other/page.html",
		},
		{
			name:  "directory html without index",
			files: []string{"assets/logo.png", "dist/pages/home.html"},
			want:  "dist/pages/home.html",
		},
		{
			name:  "first dir without html does not stop the scan",
			files: []string{"assets/logo.png", "site/index.html"},
			want:  "site/index.html",
		},
		{
			name:  "nothing matches falls back to default",
			files: []string{"data.json", "img/logo.svg"},
			want:  "index.html",
		},
		{
			name:  "empty list falls back to default",
			files: nil,
			want:  "index.html",
		},
		{
			name:  "root index beats earlier root html",
			files: []string{"landing.html", "index.html"},
			want:  "index.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectEntryPoint(tt.files)
			if got != tt.want {
				t.Errorf("DetectEntryPoint(%v) = %q, want %q", tt.files, got, tt.want)
			}

			// Determinism: same list, same answer.
			if again := DetectEntryPoint(tt.files); again != got {
				t.Errorf("second call returned %q, first returned %q", again, got)
			}
		})
	}
}
