package avatar

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gochat/pkg/generator"
)

var ErrBadData = errors.New("invalid image data")

// Store is the blob-store collaborator: it takes a base64 data URI as sent
// by the client and returns a URL the image can be served from.
type Store interface {
	Upload(dataURI string) (string, error)
}

// DiskStore writes uploads under a static directory that the router serves.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *DiskStore) Upload(dataURI string) (string, error) {
	mime, payload, ok := splitDataURI(dataURI)
	if !ok {
		return "", ErrBadData
	}

	ext, ok := extByMime[mime]
	if !ok {
		return "", ErrBadData
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadData
	}

	name, err := generator.GenerateRandomID(24)
	if err != nil {
		return "", fmt.Errorf("upload name gen error: %w", err)
	}
	name += ext

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("upload dir error: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("upload write error: %w", err)
	}

	return s.BaseURL + "/" + name, nil
}

// splitDataURI parses "data:image/png;base64,AAAA..." into mime and payload.
func splitDataURI(uri string) (mime, payload string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", false
	}
	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return "", "", false
	}
	mime, enc, found := strings.Cut(meta, ";")
	if !found || enc != "base64" {
		return "", "", false
	}
	return mime, payload, true
}
