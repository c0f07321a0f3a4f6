package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound dikembalikan saat objek tidak ada di bucket.
var ErrNotFound = errors.New("storage: objek tidak ditemukan")

// UploadInput merepresentasikan satu operasi unggah.
type UploadInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// Object adalah hasil baca streaming dari storage.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Storage mendefinisikan perilaku dasar penyimpanan blob: unggah lampiran dan
// streaming untuk proxy unduhan.
type Storage interface {
	Upload(ctx context.Context, input UploadInput) error
	Open(ctx context.Context, key string) (*Object, error)
	Remove(ctx context.Context, key string) error
}
