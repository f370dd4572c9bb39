// Package images stores uploaded catalog images on local disk.
package images

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	URLPrefix       = "/static/uploads/"
	PlaceholderName = "placeholder.jpg"
	PlaceholderURL  = URLPrefix + PlaceholderName
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save turns an uploaded image into a URL path. URLs pass through untouched;
// base64 payloads (data URI or bare) are written to disk. Anything that does
// not decode yields the placeholder.
func (s *Store) Save(data string) string {
	data = strings.TrimSpace(data)
	if data == "" {
		return ""
	}
	if isURL(data) {
		return data
	}

	ext := ".jpg"
	payload := data
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		meta, encoded, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return s.placeholder("not a base64 data uri")
		}
		if e, known := extensions[strings.TrimSuffix(meta, ";base64")]; known {
			ext = e
		}
		payload = encoded
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(raw) == 0 {
		return s.placeholder("invalid base64 image")
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		zap.L().Error("can't write image", zap.Error(err))
		return s.placeholder("write failed")
	}
	return URLPrefix + name
}

// Remove deletes a previously stored upload. Foreign URLs and the
// placeholder are left alone.
func (s *Store) Remove(url string) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == PlaceholderName || strings.ContainsAny(name, `/\`) {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("can't remove image", zap.String("file", name), zap.Error(err))
	}
}

func (s *Store) placeholder(reason string) string {
	zap.L().Warn("image upload rejected, using placeholder", zap.String("reason", reason))
	path := filepath.Join(s.dir, PlaceholderName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, placeholderJPEG, 0o644); err != nil {
			zap.L().Error("can't create placeholder image", zap.Error(err))
		}
	}
	return PlaceholderURL
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/")
}
