package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rede-backend/pkg/errors"
)

// StorageClient consumes the hosted object storage REST API.
type StorageClient struct {
	*Client
}

// Upload streams an object into a bucket. With upsert set, an existing
// object at the same path is overwritten.
func (s *StorageClient) Upload(ctx context.Context, accessToken, bucket, path string, contentType string, body io.Reader, upsert bool) error {
	start := time.Now()

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return errors.NewStorageError("Erro ao enviar arquivo.", err)
	}
	s.setAuthHeaders(req, accessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if upsert {
		req.Header.Set("x-upsert", "true")
	}

	resp, err := s.httpClient.Do(req)
	s.record("storage", start, err)
	if err != nil {
		return errors.NewNetworkError("Erro ao enviar arquivo.", err)
	}
	respBody, err := readBody(resp)
	if err != nil {
		return errors.NewNetworkError("Erro ao enviar arquivo.", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		s.logger.WithFields(map[string]interface{}{
			"bucket":      bucket,
			"status_code": resp.StatusCode,
		}).Error("Storage upload failed")
		return errors.NewStorageError("Erro ao enviar arquivo.", fmt.Errorf("storage returned status %d: %s", resp.StatusCode, remoteMessage(respBody)))
	}

	s.logger.WithFields(map[string]interface{}{
		"bucket": bucket,
		"path":   path,
	}).Debug("Object uploaded")
	return nil
}

// PublicURL resolves the public URL for an object. Issued locally; the
// hosted service serves any path under the bucket's public prefix.
func (s *StorageClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, path)
}
