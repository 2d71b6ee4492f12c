// Package blob stores uploaded files. Local keeps them on disk below a directory that the
// router serves at /uploads.
package blob

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidFileType is returned for content outside the allowed media types.
var ErrInvalidFileType = errors.New("invalid file type")

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Local struct {
	dir     string
	baseURL string
	allowed []string
}

// NewLocal stores files in dir and addresses them as baseURL/<key>.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		allowed: []string{"image/", "audio/", "video/", "application/pdf"},
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Save sniffs the content type, rejects disallowed types and writes the stream under a
// unique key derived from suggestedName.
func (l *Local) Save(ctx context.Context, r io.Reader, suggestedName string) (Object, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return Object{}, fmt.Errorf("%w: empty file", ErrInvalidFileType)
	}
	contentType := http.DetectContentType(head)
	if !l.allowedType(contentType) {
		return Object{}, fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}

	key, err := newKey(suggestedName)
	if err != nil {
		return Object{}, err
	}
	path := filepath.Join(l.dir, key)
	dest, err := os.Create(path)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", key, err)
	}
	size, err := io.Copy(dest, contextReader{ctx: ctx, r: br})
	if cerr := dest.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}

	return Object{Key: key, URL: l.baseURL + "/" + key, ContentType: contentType, Size: size}, nil
}

// Delete removes a stored file; a missing file is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	if err := os.Remove(filepath.Join(l.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) allowedType(contentType string) bool {
	for _, prefix := range l.allowed {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func newKey(suggestedName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(suggestedName))
	if len(ext) > 6 {
		ext = ""
	}
	stem := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSuffix(filepath.Base(suggestedName), filepath.Ext(suggestedName))), "-"), "-")
	if len(stem) > 40 {
		stem = stem[:40]
	}
	if stem == "" {
		stem = "upload"
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	return fmt.Sprintf("%s_%s_%s%s", stem, time.Now().UTC().Format("20060102-150405"), hex.EncodeToString(suffix), ext), nil
}

// contextReader stops a copy when the request is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
