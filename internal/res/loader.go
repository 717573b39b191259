// Package res loads the binary resources of a report: logo images and
// TrueType fonts, from local files, search paths, data: URLs or HTTP.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultMaxSize bounds the size of a single resource.
const DefaultMaxSize = 16 << 20

// ErrNotFound is returned when a local resource exists in no search path.
var ErrNotFound = errors.New("resource not found")

// Kind is the broad class of a resource.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindFont:
		return "font"
	default:
		return "unknown"
	}
}

// Resource is a loaded resource.
type Resource struct {
	Ref      string
	Kind     Kind
	MimeType string
	Data     []byte
}

// Reader returns a reader over the resource bytes.
func (r *Resource) Reader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// IsSVG reports whether the resource is an SVG document.
func (r *Resource) IsSVG() bool {
	return r.MimeType == "image/svg+xml"
}

// Loader resolves and caches resources. It is safe for concurrent use.
type Loader struct {
	// BaseDir resolves relative local references.
	BaseDir string
	// MaxSize is the largest accepted resource in bytes.
	MaxSize int64

	mu          sync.RWMutex
	cache       map[string]*Resource
	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		MaxSize: DefaultMaxSize,
		cache:   make(map[string]*Resource),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetHTTPClient replaces the client used for remote resources.
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.mu.Lock()
	l.searchPaths = append(l.searchPaths, path)
	l.mu.Unlock()
}

// Load returns the resource behind ref: a data: URL, an http(s) URL or a
// file path.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	l.mu.RLock()
	res, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return res, nil
	}

	var err error
	switch {
	case strings.HasPrefix(ref, "data:"):
		res, err = parseDataURL(ref)
	case isRemote(ref):
		res, err = l.loadRemote(ctx, ref)
	default:
		res, err = l.loadLocal(ref)
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[ref] = res
	l.mu.Unlock()
	return res, nil
}

// LoadImage loads a resource and checks that it is an image.
func (l *Loader) LoadImage(ctx context.Context, ref string) (*Resource, error) {
	return l.loadKind(ctx, ref, KindImage)
}

// LoadFont loads a resource and checks that it is a font.
func (l *Loader) LoadFont(ctx context.Context, ref string) (*Resource, error) {
	return l.loadKind(ctx, ref, KindFont)
}

func (l *Loader) loadKind(ctx context.Context, ref string, want Kind) (*Resource, error) {
	res, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Kind != want {
		return nil, fmt.Errorf("resource %s is not a %s (%s)", ref, want, res.MimeType)
	}
	return res, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// parseDataURL decodes an RFC 2397 data URL such as
// data:image/png;base64,iVBOR...
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, errors.New("invalid data URL")
	}
	mime := "application/octet-stream"
	encoded := false
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part != "":
			mime = strings.ToLower(part)
		case strings.EqualFold(part, "base64"):
			encoded = true
		}
	}

	var data []byte
	if encoded {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else {
		d, err := url.PathUnescape(payload)
		if err != nil {
			d = payload
		}
		data = []byte(d)
	}
	return newResource("data:"+mime, mime, data), nil
}

func (l *Loader) loadRemote(ctx context.Context, ref string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", ref, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %s", ref, resp.Status)
	}
	data, err := l.readAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))
	if mime == "" || mime == "application/octet-stream" {
		mime = mimeFromPath(ref)
	}
	return newResource(ref, mime, data), nil
}

func (l *Loader) loadLocal(ref string) (*Resource, error) {
	for _, path := range l.candidates(ref) {
		data, err := l.readFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return newResource(path, mimeFromPath(path), data), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// candidates lists the paths tried for a local reference, in order.
func (l *Loader) candidates(ref string) []string {
	paths := []string{ref}
	if !filepath.IsAbs(ref) && l.BaseDir != "" {
		paths = append(paths, filepath.Join(l.BaseDir, ref))
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, dir := range l.searchPaths {
		paths = append(paths, filepath.Join(dir, filepath.Base(ref)))
	}
	return paths
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	limit := l.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("resource larger than %d bytes", limit)
	}
	return data, nil
}

func newResource(ref, mime string, data []byte) *Resource {
	if mime == "" || mime == "application/octet-stream" {
		mime = sniff(data)
	}
	return &Resource{
		Ref:      ref,
		Kind:     kindOf(mime),
		MimeType: mime,
		Data:     data,
	}
}

// sniff guesses the MIME type from the content.
func sniff(data []byte) string {
	head := bytes.TrimSpace(data[:min(len(data), 512)])
	if bytes.HasPrefix(head, []byte("<svg")) ||
		(bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))) {
		return "image/svg+xml"
	}
	if bytes.HasPrefix(data, []byte{0x00, 0x01, 0x00, 0x00}) || bytes.HasPrefix(data, []byte("true")) {
		return "font/ttf"
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime
}

func mimeFromPath(path string) string {
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		path = u.Path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".svg":
		return "image/svg+xml"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	default:
		return ""
	}
}

func kindOf(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "font/"), mime == "application/x-font-ttf", mime == "application/font-sfnt":
		return KindFont
	default:
		return KindUnknown
	}
}
