/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type UploadedFile struct {
	Code       string
	FileName   string
	MimeType   string
	Data       []byte
	UploadedAt time.Time
}

// FileStore keeps uploads in memory, keyed by code.
type FileStore struct {
	mu    sync.RWMutex
	files map[string]*UploadedFile
}

func newFileStore() *FileStore {
	return &FileStore{
		files: make(map[string]*UploadedFile),
	}
}

// Put stores data under a fresh code, which it returns.
func (fs *FileStore) Put(data []byte, fileName, mimeType string) *UploadedFile {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	code := newCode(func(c string) bool {
		_, exists := fs.files[c]
		return exists
	})

	f := &UploadedFile{
		Code:       code,
		FileName:   fileName,
		MimeType:   mimeType,
		Data:       data,
		UploadedAt: time.Now(),
	}
	fs.files[code] = f

	return f
}

func (fs *FileStore) Get(code string) (*UploadedFile, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	f, ok := fs.files[normalizeCode(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, code)
	}

	return f, nil
}

func (fs *FileStore) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return len(fs.files)
}

// Reap drops every file uploaded before cutoff.
func (fs *FileStore) Reap(cutoff time.Time) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	reaped := 0
	for code, f := range fs.files {
		if f.UploadedAt.Before(cutoff) {
			delete(fs.files, code)
			reaped++
		}
	}

	return reaped
}

func (fs *FileStore) reaperLoop(ctx context.Context, cfg *Config) {
	ticker := time.NewTicker(cfg.fileTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := fs.Reap(time.Now().Add(-cfg.fileTTL)); n > 0 {
				logf(cfg, "FILES: Expired %d upload(s)", n)
			}
		}
	}
}

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}
