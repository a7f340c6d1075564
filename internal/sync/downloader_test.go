package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"wallmirror/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFilename(t *testing.T) {
	tests := []struct {
		name   string
		postID int64
		idx    int
		url    string
		want   string
	}{
		{"query string stripped", 10, 2, "https://cdn.example.com/photos/abc.jpg?size=604&sig=xyz", "10_2_abc.jpg"},
		{"plain url", 7, 0, "https://cdn.example.com/img.png", "7_0_img.png"},
		{"same image different index", 7, 1, "https://cdn.example.com/img.png", "7_1_img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageFilename(tt.postID, tt.idx, tt.url))
		})
	}
}

func TestDiskLoader_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "uploads")
	loader := NewDiskLoader(dir)

	localPath, err := loader.Download(context.Background(), srv.URL+"/img.jpg", "10_0_img.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "10_0_img.jpg"), localPath)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestDiskLoader_DownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	loader := NewDiskLoader(t.TempDir())
	_, err := loader.Download(context.Background(), srv.URL+"/missing.jpg", "f.jpg")
	require.Error(t, err)
	assert.Equal(t, models.KindDownload, models.KindOf(err))
}

func TestDiskLoader_DownloadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	loader := NewDiskLoader(t.TempDir())
	_, err := loader.Download(context.Background(), url+"/img.jpg", "f.jpg")
	require.Error(t, err)
	assert.Equal(t, models.KindDownload, models.KindOf(err))
}
