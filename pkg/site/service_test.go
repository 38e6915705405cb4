package site

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/blob"
	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// fakeProjects is an in-memory db.ProjectStore.
type fakeProjects struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{rows: make(map[uuid.UUID]*models.Project)}
}

func (f *fakeProjects) Create(ctx context.Context, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProjects) FindByToken(ctx context.Context, token string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.Token == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, db.ErrProjectNotFound
}

func (f *fakeProjects) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, db.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.rows {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) FindExpired(ctx context.Context, now time.Time) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.rows {
		if p.Status == models.StatusActive && p.ExpiresAt.Before(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[id]; ok {
		p.Status = status
	}
	return nil
}

func (f *fakeProjects) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

var _ db.ProjectStore = (*fakeProjects)(nil)

func newTestService(t *testing.T) (*Service, *fakeProjects, *blob.LocalStore) {
	t.Helper()
	local, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	projects := newFakeProjects()
	svc := NewService(blob.NewRouter(local, nil, nil, nil), projects, Options{}, nil, nil)
	return svc, projects, local
}

func TestIngestRoundTrip(t *testing.T) {
	svc, _, local := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	data := zipOf(t, map[string]string{
		"index.html": "<h1>hello</h1>",
		"style.css":  "body{}",
		"script.js":  "console.log(1)",
	}, []string{"index.html", "style.css", "script.js"})

	project, err := svc.Ingest(ctx, owner, "mysite.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if project.Name != "mysite" {
		t.Errorf("expected display name mysite, got %q", project.Name)
	}
	if project.EntryPoint != "index.html" {
		t.Errorf("expected entry point index.html, got %q", project.EntryPoint)
	}
	if len(project.Token) < 8 {
		t.Errorf("token too short to resist enumeration: %q", project.Token)
	}
	if project.StoragePath != "projects/"+project.Token {
		t.Errorf("unexpected storage path %q", project.StoragePath)
	}
	if got, want := project.ExpiresAt.Sub(project.CreatedAt), DefaultLifetime; got != want {
		t.Errorf("lifetime = %v, want %v", got, want)
	}

	for _, f := range []string{"index.html", "style.css", "script.js"} {
		if !local.Exists(ctx, project.StoragePath+"/"+f) {
			t.Errorf("stored object %s missing", f)
		}
	}

	// Round-trip: resolving the entry point returns the uploaded bytes.
	content, err := svc.Resolve(ctx, project.Token, []string{"index.html"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if string(content.Data) != "<h1>hello</h1>" {
		t.Errorf("round-trip content mismatch: %q", content.Data)
	}
	if content.CacheControl != "public, max-age=3600" {
		t.Errorf("unexpected cache control %q", content.CacheControl)
	}
}

func TestIngestRejectsForbiddenContent(t *testing.T) {
	svc, projects, _ := newTestService(t)
	ctx := context.Background()

	data := zipOf(t, map[string]string{
		"index.html": "<h1>ok</h1>",
		".env":       "SECRET=1",
	}, []string{"index.html", ".env"})

	_, err := svc.Ingest(ctx, uuid.New(), "site.zip", data)
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Fatalf("expected bad_request, got %v", err)
	}
	if len(projects.rows) != 0 {
		t.Error("no record should exist after a rejected ingest")
	}
}

func TestIngestRejectsNonZipFilename(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), uuid.New(), "site.tar.gz", []byte("x"))
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for non-zip filename, got %v", err)
	}
}

func TestIngestRejectsOversizedUpload(t *testing.T) {
	local, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(blob.NewRouter(local, nil, nil, nil), newFakeProjects(),
		Options{MaxUploadBytes: 128}, nil, nil)

	_, err = svc.Ingest(context.Background(), uuid.New(), "big.zip", make([]byte, 256))
	if !sberr.IsCode(err, sberr.CodeBadRequest) {
		t.Errorf("expected bad_request for oversized upload, got %v", err)
	}
}

func TestResolveExtensionCompletion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	data := zipOf(t, map[string]string{
		"index.html":       "<h1>home</h1>",
		"about.html":       "<h1>about</h1>",
		"docs/index.html":  "<h1>docs</h1>",
		"assets/style.css": "body{}",
	}, []string{"index.html", "about.html", "docs/index.html", "assets/style.css"})

	project, err := svc.Ingest(ctx, uuid.New(), "site.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	tests := []struct {
		segments []string
		want     string
	}{
		{nil, "<h1>home</h1>"},                      // bare token serves the entry point
		{[]string{"about.html"}, "<h1>about</h1>"},  // exact key
		{[]string{"about"}, "<h1>about</h1>"},       // key + ".html"
		{[]string{"docs"}, "<h1>docs</h1>"},         // key + "/index.html"
		{[]string{"assets", "style.css"}, "body{}"}, // nested exact key
	}
	for _, tt := range tests {
		content, err := svc.Resolve(ctx, project.Token, tt.segments)
		if err != nil {
			t.Errorf("Resolve(%v) failed: %v", tt.segments, err)
			continue
		}
		if string(content.Data) != tt.want {
			t.Errorf("Resolve(%v) = %q, want %q", tt.segments, content.Data, tt.want)
		}
	}

	if _, err := svc.Resolve(ctx, project.Token, []string{"missing"}); !sberr.IsCode(err, sberr.CodeNotFound) {
		t.Errorf("expected not_found for unresolved path, got %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	data := zipOf(t, map[string]string{"index.html": "x"}, []string{"index.html"})
	project, err := svc.Ingest(ctx, uuid.New(), "site.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	for _, segments := range [][]string{
		{".."},
		{"a", "..", "b"},
		{"%2e%2e"},
		{"a/b"},
	} {
		if _, err := svc.Resolve(ctx, project.Token, segments); !sberr.IsCode(err, sberr.CodeBadRequest) {
			t.Errorf("Resolve(%v) should be bad_request, got %v", segments, err)
		}
	}
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Resolve(context.Background(), "deadbeef", []string{"index.html"})
	if !sberr.IsCode(err, sberr.CodeNotFound) {
		t.Errorf("expected not_found for unknown token, got %v", err)
	}
}

func TestExpiryIsTimeAuthoritative(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	data := zipOf(t, map[string]string{"index.html": "x"}, []string{"index.html"})
	project, err := svc.Ingest(ctx, uuid.New(), "site.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Jump past expires_at without running reclamation: status is still
	// active, but the timestamp alone must deny serving.
	svc.now = func() time.Time { return project.ExpiresAt.Add(time.Minute) }

	_, err = svc.Resolve(ctx, project.Token, []string{"index.html"})
	if !sberr.IsCode(err, sberr.CodeGone) {
		t.Errorf("expected gone for time-expired project, got %v", err)
	}
}

func TestReclaimIdempotent(t *testing.T) {
	svc, projects, local := newTestService(t)
	ctx := context.Background()

	data := zipOf(t, map[string]string{"index.html": "x"}, []string{"index.html"})
	project, err := svc.Ingest(ctx, uuid.New(), "site.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	svc.now = func() time.Time { return project.ExpiresAt.Add(time.Minute) }

	n, err := svc.Reclaim(ctx)
	if err != nil {
		t.Fatalf("Reclaim failed: %v", err)
	}
	if n != 1 {
		t.Errorf("first pass should reclaim 1, got %d", n)
	}
	if local.Exists(ctx, project.StoragePath+"/index.html") {
		t.Error("storage should be gone after reclaim")
	}

	stored, err := projects.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("record should survive reclamation: %v", err)
	}
	if stored.Status != models.StatusExpired {
		t.Errorf("expected expired status, got %s", stored.Status)
	}

	// Second pass finds nothing active.
	n, err = svc.Reclaim(ctx)
	if err != nil {
		t.Fatalf("second Reclaim failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second pass should reclaim 0, got %d", n)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc, projects, local := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	data := zipOf(t, map[string]string{"index.html": "x"}, []string{"index.html"})
	project, err := svc.Ingest(ctx, owner, "site.zip", data)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if err := svc.Delete(ctx, stranger, project.ID); !sberr.IsCode(err, sberr.CodeNotFound) {
		t.Errorf("stranger delete should be not_found, got %v", err)
	}
	if _, err := projects.FindByID(ctx, project.ID); err != nil {
		t.Fatal("record must survive a stranger's delete attempt")
	}

	if err := svc.Delete(ctx, owner, project.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := projects.FindByID(ctx, project.ID); err != db.ErrProjectNotFound {
		t.Error("record should be gone after owner delete")
	}
	if local.Exists(ctx, project.StoragePath+"/index.html") {
		t.Error("storage should be gone after owner delete")
	}
}
