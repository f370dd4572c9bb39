package images

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Save(t *testing.T) {
	pngBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	encoded := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name          string
		input         string
		expectedURL   string
		expectedExt   string
		expectedBytes []byte
	}{
		{name: "empty", input: "", expectedURL: ""},
		{name: "absolute url", input: "https://cdn.example/a.jpg", expectedURL: "https://cdn.example/a.jpg"},
		{name: "stored path", input: "/static/uploads/x.jpg", expectedURL: "/static/uploads/x.jpg"},
		{name: "data uri", input: "data:image/png;base64," + encoded, expectedExt: ".png", expectedBytes: pngBytes},
		{name: "bare base64", input: encoded, expectedExt: ".jpg", expectedBytes: pngBytes},
		{name: "garbage", input: "not base64 at all!!", expectedURL: PlaceholderURL},
		{name: "data uri without base64", input: "data:image/png,abc", expectedURL: PlaceholderURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store, err := NewStore(dir)
			require.NoError(t, err)

			url := store.Save(tt.input)

			if tt.expectedBytes == nil {
				assert.Equal(t, tt.expectedURL, url)
				if url == PlaceholderURL {
					_, err := os.Stat(filepath.Join(dir, PlaceholderName))
					assert.NoError(t, err)
				}
				return
			}
			require.True(t, strings.HasPrefix(url, URLPrefix))
			assert.Equal(t, tt.expectedExt, filepath.Ext(url))
			data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, URLPrefix)))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBytes, data)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	url := store.Save(base64.StdEncoding.EncodeToString([]byte("img")))
	path := filepath.Join(dir, strings.TrimPrefix(url, URLPrefix))
	_, err = os.Stat(path)
	require.NoError(t, err)

	store.Remove(url)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	store.Save("%%%")
	store.Remove(PlaceholderURL)
	_, err = os.Stat(filepath.Join(dir, PlaceholderName))
	assert.NoError(t, err)

	store.Remove("https://cdn.example/a.jpg")
	store.Remove(URLPrefix + "../secret")
}
