package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage stores uploaded blog media (hero images, inline
// illustrations) and hands back a URL usable in post content.
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader) (url string, size int64, err error)
	Delete(ctx context.Context, relativePath string) error
	BaseDir() string
}

// LocalFileStorage keeps uploads on the local filesystem under baseDir and
// serves them under baseURL. Stored names are randomized to avoid both
// collisions and path tricks in client-supplied filenames.
type LocalFileStorage struct {
	baseDir string
	baseURL string
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("filestorage: create base dir: %w", err)
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dstPath := filepath.Join(s.baseDir, name)

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("filestorage: open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", 0, fmt.Errorf("filestorage: create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", 0, fmt.Errorf("filestorage: write file: %w", err)
	}

	return s.baseURL + "/" + name, size, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, relativePath string) error {
	// Uploaded names are flat, a path separator means a forged request.
	if strings.ContainsAny(relativePath, `/\`) {
		return fmt.Errorf("filestorage: invalid path %q", relativePath)
	}
	return os.Remove(filepath.Join(s.baseDir, relativePath))
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}
