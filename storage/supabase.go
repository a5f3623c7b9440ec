package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ObjectStore uploads file buffers to a Supabase storage bucket and returns
// the public URL. Configured via SUPABASE_URL, SUPABASE_SERVICE_KEY and
// SUPABASE_BUCKET.
type ObjectStore struct {
	baseURL string
	bucket  string
	apiKey  string
	client  *http.Client
}

func NewObjectStoreFromEnv() *ObjectStore {
	return &ObjectStore{
		baseURL: os.Getenv("SUPABASE_URL"),
		bucket:  os.Getenv("SUPABASE_BUCKET"),
		apiKey:  os.Getenv("SUPABASE_SERVICE_KEY"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores data under filename and returns the public URL.
func (s *ObjectStore) Upload(data []byte, filename, contentType string) (string, error) {
	if s.baseURL == "" || s.bucket == "" || s.apiKey == "" {
		return "", fmt.Errorf("object store is not configured")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filename)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	// Replace the object when the same name is uploaded again.
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, filename)
	return publicURL, nil
}

// Delete removes the object stored under filename.
func (s *ObjectStore) Delete(filename string) error {
	if s.baseURL == "" || s.bucket == "" || s.apiKey == "" {
		return fmt.Errorf("object store is not configured")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filename)

	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
