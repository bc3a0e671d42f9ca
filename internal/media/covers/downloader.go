// Package covers downloads book covers into local storage.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nightstandapp/nightstand-server/internal/media/images"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024

	downloadTimeout = 30 * time.Second
)

// ErrNotImage is returned when the URL does not serve a decodable image.
var ErrNotImage = errors.New("cover is not an image")

// Cover describes a stored cover.
type Cover struct {
	BookID string `json:"bookId"`
	Size   int64  `json:"size"`
	images.Info
}

// Downloader fetches cover images and stores them per book.
type Downloader struct {
	httpClient *http.Client
	storage    *images.Storage
	logger     *slog.Logger
}

// NewDownloader creates a cover downloader writing into storage.
func NewDownloader(storage *images.Storage, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: downloadTimeout},
		storage:    storage,
		logger:     logger,
	}
}

// Download fetches rawURL, checks that it decodes as an image and stores it
// for bookID. Google Books serves http links; they are upgraded to https.
func (d *Downloader) Download(ctx context.Context, bookID, rawURL string) (*Cover, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid cover URL %q", rawURL)
	}
	if u.Scheme == "http" && strings.HasSuffix(u.Hostname(), "books.google.com") {
		u.Scheme = "https"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported cover URL scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download cover: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	if len(data) > maxCoverSize {
		return nil, fmt.Errorf("cover exceeds %d bytes", maxCoverSize)
	}

	info, err := images.Inspect(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if err := d.storage.Save(bookID, data); err != nil {
		return nil, fmt.Errorf("store cover: %w", err)
	}

	d.logger.Info("downloaded cover",
		"book_id", bookID,
		"size", len(data),
		"format", info.Format,
		"width", info.Width,
		"height", info.Height,
	)

	return &Cover{BookID: bookID, Size: int64(len(data)), Info: *info}, nil
}

// Open returns the stored cover bytes and their content type.
func (d *Downloader) Open(bookID string) ([]byte, string, error) {
	data, err := d.storage.Get(bookID)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}

// Hash returns the ETag for a stored cover.
func (d *Downloader) Hash(bookID string) (string, error) {
	return d.storage.Hash(bookID)
}

// Remove deletes the stored cover of bookID.
func (d *Downloader) Remove(bookID string) error {
	return d.storage.Delete(bookID)
}

// RemoveAll deletes every stored cover.
func (d *Downloader) RemoveAll() error {
	return d.storage.Clear()
}
