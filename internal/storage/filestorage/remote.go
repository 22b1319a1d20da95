package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"meetblog/internal/apiclient"
)

const uploadPath = "/api/blog/upload/"

type uploadResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// RemoteFileStorage forwards uploads to the backing CMS, which hosts the
// files itself. Used together with the remote content backend.
type RemoteFileStorage struct {
	client *apiclient.Client
}

func NewRemoteFileStorage(client *apiclient.Client) *RemoteFileStorage {
	return &RemoteFileStorage{client: client}
}

func (s *RemoteFileStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, int64, error) {
	const op = "filestorage.RemoteFileStorage.Save"

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	defer src.Close()

	var result uploadResult
	if err := s.client.Upload(ctx, uploadPath, "file", file.Filename, src, &result, nil); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	size := result.Size
	if size == 0 {
		size = file.Size
	}

	return result.URL, size, nil
}

// Delete is not supported by the backing CMS; stored files are managed
// there.
func (s *RemoteFileStorage) Delete(ctx context.Context, filename string) error {
	return fmt.Errorf("filestorage.RemoteFileStorage.Delete: not supported")
}

func (s *RemoteFileStorage) BaseDir() string {
	return ""
}
