/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGet(t *testing.T) {
	fs := newFileStore()

	f := fs.Put([]byte("hello"), "hello.txt", "text/plain")
	assert.Regexp(t, codePattern, f.Code)
	assert.Equal(t, 1, fs.Len())

	got, err := fs.Get(f.Code)
	require.NoError(t, err)
	assert.Same(t, f, got)
	assert.Equal(t, []byte("hello"), got.Data)
	assert.Equal(t, "hello.txt", got.FileName)
	assert.Equal(t, "text/plain", got.MimeType)

	lower, err := fs.Get(" " + strings.ToLower(f.Code) + " ")
	require.NoError(t, err)
	assert.Same(t, f, lower)
}

func TestFileStore_UniqueCodes(t *testing.T) {
	fs := newFileStore()

	seen := make(map[string]bool)
	for range 100 {
		f := fs.Put(nil, "empty", "application/octet-stream")
		assert.False(t, seen[f.Code])
		seen[f.Code] = true
	}
	assert.Equal(t, 100, fs.Len())
}

func TestFileStore_GetMissing(t *testing.T) {
	fs := newFileStore()

	_, err := fs.Get("ZZZZZZ")
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_Reap(t *testing.T) {
	fs := newFileStore()

	old := fs.Put([]byte("old"), "old.txt", "text/plain")
	old.UploadedAt = time.Now().Add(-2 * time.Hour)
	fresh := fs.Put([]byte("new"), "new.txt", "text/plain")

	assert.Equal(t, 1, fs.Reap(time.Now().Add(-time.Hour)))

	_, err := fs.Get(old.Code)
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = fs.Get(fresh.Code)
	assert.NoError(t, err)

	assert.Equal(t, 0, fs.Reap(time.Now().Add(-time.Hour)))
}

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1536, "1.5 kB"},
		{10 << 20, "10.5 MB"},
		{3_000_000_000, "3.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanReadableSize(tt.in), tt.in)
	}
}
