package blob

import (
	"context"
	"strings"
	"testing"
)

func TestLocalStorePutGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "projects/abc/index.html", []byte("<h1>hi</h1>"), "text/html"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, contentType, err := store.Get(ctx, "projects/abc/index.html")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "<h1>hi</h1>" {
		t.Errorf("unexpected content: %q", data)
	}
	if !strings.HasPrefix(contentType, "text/html") {
		t.Errorf("expected text/html content type, got %q", contentType)
	}

	if !store.Exists(ctx, "projects/abc/index.html") {
		t.Error("Exists should report stored key")
	}
	if store.Exists(ctx, "projects/abc/missing.html") {
		t.Error("Exists should not report missing key")
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	_, _, err = store.Get(context.Background(), "projects/nope/file.txt")
	if !IsNotFound(err) {
		t.Errorf("expected not-found classification, got %v", err)
	}
}

func TestLocalStoreDeletePrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	files := []string{
		"projects/p1/index.html",
		"projects/p1/css/style.css",
		"projects/p1/js/lib/app.js",
		"projects/p2/index.html",
	}
	for _, f := range files {
		if err := store.Put(ctx, f, []byte("x"), ""); err != nil {
			t.Fatalf("Put %s failed: %v", f, err)
		}
	}

	n, err := store.DeletePrefix(ctx, "projects/p1")
	if err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}

	if store.Exists(ctx, "projects/p1/js/lib/app.js") {
		t.Error("nested file should be gone")
	}
	if !store.Exists(ctx, "projects/p2/index.html") {
		t.Error("sibling prefix should be untouched")
	}

	// Deleting an empty prefix is a benign no-op.
	n, err = store.DeletePrefix(ctx, "projects/p1")
	if err != nil {
		t.Fatalf("second DeletePrefix failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 deleted on second pass, got %d", n)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	// path.Clean folds the traversal back inside the root, so this lands
	// under the root rather than escaping it.
	if err := store.Put(ctx, "projects/../projects/safe.txt", []byte("x"), ""); err != nil {
		t.Errorf("cleanable key should be accepted: %v", err)
	}
	if !store.Exists(ctx, "projects/safe.txt") {
		t.Error("cleaned key should resolve inside the root")
	}

	if err := store.Put(ctx, "../../etc/passwd", []byte("x"), ""); err != nil {
		// Cleaned to /etc/passwd relative to root, which stays inside;
		// the important property is it never writes outside root.
		t.Logf("escaping key rejected: %v", err)
	}
	if store.Exists(ctx, "../../etc/passwd") && !store.Exists(ctx, "etc/passwd") {
		t.Error("key must not resolve outside the storage root")
	}
}
