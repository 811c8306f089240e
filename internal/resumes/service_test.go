package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/templates"
	"jobtracker-backend/resume/encode"
	"jobtracker-backend/resume/merge"
	"jobtracker-backend/resume/model"
)

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saves   int
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.saves++
	return key, int64(len(data)), "application/octet-stream", nil
}

func (f *fakeStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[storageKey] = data
	f.saves++
	return int64(len(data)), nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Delete(ctx context.Context, storageKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, storageKey)
	f.deleted = append(f.deleted, storageKey)
	return nil
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	templates  *templates.MemoryRepo
	repo       Repo
	templateID string
	appID      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	templateRepo := templates.NewMemoryRepo()
	applicationRepo := applications.NewMemoryRepo()
	resumeRepo := NewMemoryRepo()
	templateRepo.Refs = resumeRepo
	store := newFakeStore()

	templateSvc := &templates.Service{Repo: templateRepo}
	template, err := templateSvc.Create(ctx, "user-1", "Backend", "", model.TemplateData{
		Contact: model.Contact{FullName: "Jane Doe", Email: "jane@example.com"},
		Skills:  []string{"Go", "PostgreSQL"},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	applicationSvc := &applications.Service{Repo: applicationRepo}
	application, err := applicationSvc.Create(ctx, "user-1", "Initech", "Backend Engineer", applications.StatusApplied, "", nil)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}

	return &fixture{
		svc: &Service{
			Repo:         resumeRepo,
			Templates:    templateRepo,
			Applications: applicationRepo,
			Merger:       merge.FullReplace{},
			Encoder:      encode.NewEncoder(nil, nil),
			Store:        store,
		},
		store:      store,
		templates:  templateRepo,
		repo:       resumeRepo,
		templateID: template.ID,
		appID:      application.ID,
	}
}

func (f *fixture) generate(t *testing.T, name string) ResumeRecord {
	t.Helper()
	record, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID: f.templateID,
		Name:       name,
		Format:     "html",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return record
}

func TestGenerateAssignsSequentialVersions(t *testing.T) {
	f := newFixture(t)

	for want := 1; want <= 3; want++ {
		record := f.generate(t, "Backend Resume")
		if record.Version != want {
			t.Fatalf("version = %d, want %d", record.Version, want)
		}
		wantSuffix := fmt.Sprintf("Backend Resume_v%d.html", want)
		if !strings.HasSuffix(record.StorageKey, wantSuffix) {
			t.Fatalf("storage key %q does not end in %q", record.StorageKey, wantSuffix)
		}
	}

	// A different name starts its own lineage at 1.
	other := f.generate(t, "Frontend Resume")
	if other.Version != 1 {
		t.Fatalf("new lineage version = %d, want 1", other.Version)
	}
}

func TestVersionNeverReusedAfterDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.generate(t, "Backend Resume")
	second := f.generate(t, "Backend Resume")

	if err := f.svc.Delete(ctx, "user-1", second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	third := f.generate(t, "Backend Resume")
	if third.Version != 3 {
		t.Fatalf("version after delete = %d, want 3", third.Version)
	}
}

func TestDeleteRemovesArtifact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record := f.generate(t, "Backend Resume")
	if err := f.svc.Delete(ctx, "user-1", record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(f.store.deleted) != 1 || f.store.deleted[0] != record.StorageKey {
		t.Fatalf("deleted artifacts = %v, want [%s]", f.store.deleted, record.StorageKey)
	}
	if _, err := f.svc.Get(ctx, "user-1", record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGenerateValidationFailureTouchesNoStorage(t *testing.T) {
	f := newFixture(t)

	override := &model.TemplateData{Contact: model.Contact{FullName: "No Email"}}
	_, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID: f.templateID,
		Name:       "Broken",
		Format:     "html",
		Override:   override,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.store.saves != 0 {
		t.Fatalf("storage was written %d times on a failed validation", f.store.saves)
	}
}

func TestGenerateUnknownFormatFailsBeforeStorage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID: f.templateID,
		Name:       "Backend Resume",
		Format:     "rtf",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.store.saves != 0 {
		t.Fatalf("storage was written %d times for an unknown format", f.store.saves)
	}
}

func TestGenerateMissingTemplate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID: "tpl-missing",
		Name:       "Backend Resume",
		Format:     "html",
	})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGenerateMissingApplication(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID:    f.templateID,
		ApplicationID: "app-missing",
		Name:          "Backend Resume",
		Format:        "html",
	})
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestPreviewMatchesGeneratedArtifact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	preview, err := f.svc.Preview(ctx, "user-1", GenerateParams{TemplateID: f.templateID})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	record := f.generate(t, "Backend Resume")
	reader, err := f.store.Open(ctx, record.StorageKey)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer reader.Close()
	stored, _ := io.ReadAll(reader)

	if preview.HTML != string(stored) {
		t.Fatal("preview HTML differs from the generated artifact")
	}
	if preview.TemplateName == "" {
		t.Fatal("preview missing template name")
	}
	if f.repoCount() != 1 {
		t.Fatalf("record count = %d, want 1 (preview must not persist)", f.repoCount())
	}
}

func (f *fixture) repoCount() int {
	records, _ := f.repo.ListByUser(context.Background(), "user-1")
	return len(records)
}

type conflictOnceRepo struct {
	Repo
	mu       sync.Mutex
	conflict bool
}

func (r *conflictOnceRepo) Create(ctx context.Context, record ResumeRecord) error {
	r.mu.Lock()
	first := !r.conflict
	r.conflict = true
	r.mu.Unlock()
	if first {
		return ErrVersionConflict
	}
	return r.Repo.Create(ctx, record)
}

func TestGenerateRetriesOnVersionConflict(t *testing.T) {
	f := newFixture(t)
	f.svc.Repo = &conflictOnceRepo{Repo: f.repo}

	record := f.generate(t, "Backend Resume")
	if record.Version == 0 {
		t.Fatal("expected a claimed version")
	}

	// The artifact written for the lost claim was cleaned up.
	if len(f.store.deleted) != 1 {
		t.Fatalf("orphan cleanups = %d, want 1", len(f.store.deleted))
	}
}

type failingRepo struct {
	Repo
}

func (r *failingRepo) Create(ctx context.Context, record ResumeRecord) error {
	return errors.New("insert failed")
}

func TestGenerateCleansUpArtifactOnInsertFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.Repo = &failingRepo{Repo: f.repo}

	_, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
		TemplateID: f.templateID,
		Name:       "Backend Resume",
		Format:     "html",
	})
	if err == nil {
		t.Fatal("expected the insert failure to surface")
	}
	if errors.Is(err, ErrVersionConflict) {
		t.Fatalf("unexpected conflict error: %v", err)
	}

	// The stored artifact must not be stranded when the record insert fails.
	if len(f.store.deleted) != 1 {
		t.Fatalf("orphan cleanups = %d, want 1", len(f.store.deleted))
	}
	if len(f.store.objects) != 0 {
		t.Fatalf("store still holds %d objects after failed insert", len(f.store.objects))
	}
}

func TestGenerateLinksApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.svc.Generate(ctx, "user-1", GenerateParams{
		TemplateID:    f.templateID,
		ApplicationID: f.appID,
		Name:          "Backend Resume",
		Format:        "html",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	linked, err := f.svc.List(ctx, "user-1", f.appID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(linked) != 1 || linked[0].ID != record.ID {
		t.Fatalf("ListByApplication returned %d records", len(linked))
	}

	byTemplate, err := f.svc.List(ctx, "user-1", "", f.templateID)
	if err != nil {
		t.Fatalf("List by template: %v", err)
	}
	if len(byTemplate) != 1 || byTemplate[0].ID != record.ID {
		t.Fatalf("ListByTemplate returned %d records", len(byTemplate))
	}
}

func TestTemplateDeleteRestrictedByGeneratedResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.generate(t, "Backend Resume")

	templateSvc := &templates.Service{Repo: f.templates}
	err := templateSvc.Delete(ctx, "user-1", f.templateID)
	if !errors.Is(err, templates.ErrTemplateInUse) {
		t.Fatalf("expected ErrTemplateInUse, got %v", err)
	}
}

func TestRenameKeepsVersionAndArtifact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record := f.generate(t, "Backend Resume")
	renamed, err := f.svc.Rename(ctx, "user-1", record.ID, "Initech Application", "tuned for the posting")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Version != record.Version {
		t.Fatalf("version changed on rename: %d -> %d", record.Version, renamed.Version)
	}
	if renamed.StorageKey != record.StorageKey {
		t.Fatal("storage key changed on rename")
	}
	if renamed.Name != "Initech Application" || renamed.Description != "tuned for the posting" {
		t.Fatalf("unexpected rename result: %+v", renamed)
	}
}

func TestConcurrentGenerationsGetDistinctVersions(t *testing.T) {
	f := newFixture(t)

	const workers = 8
	versions := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := f.svc.Generate(context.Background(), "user-1", GenerateParams{
				TemplateID: f.templateID,
				Name:       "Backend Resume",
				Format:     "html",
			})
			if err != nil {
				if errors.Is(err, ErrVersionConflict) {
					return // bounded retries exhausted, acceptable under contention
				}
				t.Errorf("Generate: %v", err)
				return
			}
			versions <- record.Version
		}()
	}
	wg.Wait()
	close(versions)

	seen := make(map[int]bool)
	for v := range versions {
		if seen[v] {
			t.Fatalf("version %d assigned twice", v)
		}
		seen[v] = true
	}
	if len(seen) == 0 {
		t.Fatal("no generation succeeded")
	}
}
