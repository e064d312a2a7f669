package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseStore implements Store on a Firebase Cloud Storage bucket.
type FirebaseStore struct {
	bucket *storage.BucketHandle
	name   string
}

func NewFirebaseStore(bucket *storage.BucketHandle, bucketName string) *FirebaseStore {
	return &FirebaseStore{bucket: bucket, name: bucketName}
}

// Upload stores a data-URL payload under folder and returns its public URL
// and asset id. The asset id is the object name, so Delete needs no lookup.
func (s *FirebaseStore) Upload(ctx context.Context, payload string, folder string) (Asset, error) {
	contentType, data, err := decodeDataURL(payload)
	if err != nil {
		return Asset{}, err
	}

	objectName := folder + "/" + uuid.NewString()
	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return Asset{}, fmt.Errorf("writing media object: %w", err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, fmt.Errorf("finalizing media object: %w", err)
	}

	return Asset{
		URL:     fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.name, objectName),
		AssetID: objectName,
	}, nil
}

// Delete removes the object. A missing object is treated as success.
func (s *FirebaseStore) Delete(ctx context.Context, assetID string) error {
	err := s.bucket.Object(assetID).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// decodeDataURL splits "data:<type>;base64,<data>". A bare base64 string is
// accepted as application/octet-stream.
func decodeDataURL(payload string) (string, []byte, error) {
	contentType := "application/octet-stream"
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		meta, rest, found := strings.Cut(payload, ",")
		if !found {
			return "", nil, fmt.Errorf("malformed data URL")
		}
		encoded = rest
		meta = strings.TrimPrefix(meta, "data:")
		if ct, ok := strings.CutSuffix(meta, ";base64"); ok && ct != "" {
			contentType = ct
		}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decoding media payload: %w", err)
	}
	return contentType, data, nil
}
