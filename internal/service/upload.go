package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/storage"
)

const maxUploadBytes = 10 << 20 // matches the request body limit

var ErrInvalidUpload = errors.New("invalid upload")

type UploadService struct {
	store *storage.ObjectStore
}

func NewUploadService(store *storage.ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// Upload stores an image under a key scoped to the uploading account and
// returns its public URL. Temporary uploads get a short cache lifetime so
// abandoned drafts age out of edge caches.
func (s *UploadService) Upload(ctx context.Context, accountID uuid.UUID, data []byte, contentType string, temporary bool) (string, error) {
	if len(data) == 0 || len(data) > maxUploadBytes {
		return "", fmt.Errorf("%w: body must be 1 byte to %d bytes", ErrInvalidUpload, maxUploadBytes)
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidUpload, contentType)
	}

	key := fmt.Sprintf("uploads/%s/%s%s", accountID, uuid.New(), ext)

	return s.store.Put(ctx, key, data, contentType, temporary)
}

// Delete removes an uploaded object. Only objects under the caller's own
// prefix are deletable; anything else reports not found.
func (s *UploadService) Delete(ctx context.Context, accountID uuid.UUID, url string) error {
	key := s.store.KeyFromURL(url)
	if key == "" || !strings.HasPrefix(key, fmt.Sprintf("uploads/%s/", accountID)) {
		return fmt.Errorf("%w: object not found", ErrInvalidUpload)
	}

	return s.store.Delete(ctx, key)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}
