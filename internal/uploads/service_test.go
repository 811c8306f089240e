package uploads

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"jobtracker-backend/internal/applications"
)

type stubStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string][]byte)}
}

func (s *stubStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (s *stubStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = data
	return int64(len(data)), nil
}

func (s *stubStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStore) Delete(ctx context.Context, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	s.deleted = append(s.deleted, storageKey)
	return nil
}

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(`<w:document/>`)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newService() (*Service, *stubStore) {
	store := newStubStore()
	return &Service{
		Repo:         NewMemoryRepo(),
		Applications: applications.NewMemoryRepo(),
		Store:        store,
	}, store
}

func TestUploadAcceptsDOCX(t *testing.T) {
	svc, _ := newService()

	upload, err := svc.Upload(context.Background(), "user-1", "", "cover_letter.docx", bytes.NewReader(docxBytes(t)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if upload.MimeType != mimeDOCX {
		t.Fatalf("mime type = %q", upload.MimeType)
	}
	if upload.SizeBytes == 0 {
		t.Fatal("size not recorded")
	}
}

func TestUploadRejectsGarbage(t *testing.T) {
	svc, store := newService()

	_, err := svc.Upload(context.Background(), "user-1", "", "notes.txt", bytes.NewReader([]byte("just some text")))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatal("rejected file reached storage")
	}
}

func TestUploadRejectsZipWithoutDocument(t *testing.T) {
	svc, _ := newService()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("random.txt")
	_, _ = f.Write([]byte("nope"))
	_ = w.Close()

	_, err := svc.Upload(context.Background(), "user-1", "", "fake.docx", bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _ := newService()

	big := make([]byte, maxUploadBytes+1)
	_, err := svc.Upload(context.Background(), "user-1", "", "huge.pdf", bytes.NewReader(big))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestUploadRejectsUnknownApplication(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Upload(context.Background(), "user-1", "app-missing", "cover.docx", bytes.NewReader(docxBytes(t)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	upload, err := svc.Upload(ctx, "user-1", "", "cover.docx", bytes.NewReader(docxBytes(t)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", upload.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != upload.StorageKey {
		t.Fatalf("deleted = %v", store.deleted)
	}
	if _, err := svc.Get(ctx, "user-1", upload.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
