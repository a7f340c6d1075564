package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"wallmirror/internal/models"
)

// MediaLoader mirrors remote media files into local storage and returns the
// local file path.
type MediaLoader interface {
	Download(ctx context.Context, remoteURL, filename string) (string, error)
}

// DiskLoader downloads media over HTTP into a local directory.
type DiskLoader struct {
	dir        string
	httpClient *http.Client
}

// NewDiskLoader creates a loader writing into dir. The directory is created
// on first download.
func NewDiskLoader(dir string) *DiskLoader {
	return &DiskLoader{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Download fetches remoteURL and writes it to dir/filename, returning the
// local path. Any transport or filesystem failure is reported as a download
// error; callers treat those as non-fatal to the owning post.
func (l *DiskLoader) Download(ctx context.Context, remoteURL, filename string) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", models.NewDownloadError("create uploads directory", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", models.NewDownloadError("create request", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", models.NewDownloadError("fetch "+remoteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", models.NewDownloadError(fmt.Sprintf("fetch %s: status %d", remoteURL, resp.StatusCode), nil)
	}

	localPath := filepath.Join(l.dir, filename)
	f, err := os.Create(localPath)
	if err != nil {
		return "", models.NewDownloadError("create "+localPath, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(localPath)
		return "", models.NewDownloadError("write "+localPath, err)
	}
	if err := f.Close(); err != nil {
		return "", models.NewDownloadError("close "+localPath, err)
	}

	return localPath, nil
}

// ImageFilename derives the deterministic local filename for the idx-th
// image of a post: {postID}_{idx}_{basename of the URL without its query
// string}. Stable across re-downloads and collision-free across posts.
func ImageFilename(postID int64, idx int, remoteURL string) string {
	base := remoteURL
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%d_%d_%s", postID, idx, path.Base(base))
}
