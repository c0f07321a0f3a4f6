package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/smartrw/api/internal/storage"
)

type captureStorage struct {
	keys []string
}

func (s *captureStorage) Upload(ctx context.Context, input storage.UploadInput) error {
	s.keys = append(s.keys, input.Key)
	return nil
}

func (s *captureStorage) Open(ctx context.Context, key string) (*storage.Object, error) {
	return nil, storage.ErrNotFound
}

func (s *captureStorage) Remove(ctx context.Context, key string) error { return nil }

func attachmentRequest(t *testing.T, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file gagal: %v", err)
	}
	if _, err := part.Write([]byte("isi berkas")); err != nil {
		t.Fatalf("tulis berkas gagal: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("tutup multipart gagal: %v", err)
	}

	r := httptest.NewRequest("POST", "/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestStoreAttachmentSanitizesFilename(t *testing.T) {
	store := &captureStorage{}
	h := &Handler{storage: store}
	id := uuid.New()

	r := attachmentRequest(t, "../../etc/bukti.jpg")
	key, err := h.storeAttachment(r, "documents", id)
	if err != nil {
		t.Fatalf("simpan lampiran gagal: %v", err)
	}

	want := "documents/" + id.String() + "/bukti.jpg"
	if key != want {
		t.Fatalf("key = %q, ingin %q", key, want)
	}
	if len(store.keys) != 1 || store.keys[0] != want {
		t.Fatalf("key tersimpan = %v, ingin [%s]", store.keys, want)
	}
}

func TestStoreAttachmentRejectsNamelessFile(t *testing.T) {
	store := &captureStorage{}
	h := &Handler{storage: store}
	id := uuid.New()

	r := attachmentRequest(t, "..")
	key, err := h.storeAttachment(r, "complaints", id)
	if err == nil {
		t.Fatalf("nama tanpa berkas diterima, key = %q", key)
	}
	if len(store.keys) != 0 {
		t.Fatalf("tidak boleh ada unggahan, dapat %v", store.keys)
	}
}
