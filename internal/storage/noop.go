package storage

import (
	"context"
	"errors"
)

var errNotConfigured = errors.New("storage: backend belum dikonfigurasi")

// Noop dipakai saat object storage tidak dikonfigurasi; semua operasi gagal
// dengan pesan yang jelas.
type Noop struct{}

func (Noop) Upload(ctx context.Context, input UploadInput) error { return errNotConfigured }

func (Noop) Open(ctx context.Context, key string) (*Object, error) { return nil, errNotConfigured }

func (Noop) Remove(ctx context.Context, key string) error { return errNotConfigured }
