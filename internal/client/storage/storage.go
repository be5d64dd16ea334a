// Package storage keeps catch photos in an object store.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("photo storage is not configured")

// PhotoStore stores photo objects under caller-chosen keys.
type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a time-limited download link.
	URL(ctx context.Context, key string) (string, error)
}

// Disabled is used when no bucket is configured; catches without photos
// still work.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, int64, string) error { return ErrDisabled }
func (Disabled) Delete(context.Context, string) error                        { return ErrDisabled }
func (Disabled) URL(context.Context, string) (string, error)                 { return "", ErrDisabled }
