package app

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_site/internal/domain"
)

const (
	DefaultMaxFiles = 30
	MB              = int64(1 << 20)
)

type MediaLimits struct {
	MaxFiles      int
	MaxImageBytes int64
	MaxVideoBytes int64
}

func DefaultMediaLimits() MediaLimits {
	return MediaLimits{MaxFiles: DefaultMaxFiles, MaxImageBytes: 10 * MB, MaxVideoBytes: 100 * MB}
}

func (l MediaLimits) maxBytes(kind domain.MediaKind) int64 {
	if kind == domain.MediaVideo {
		return l.MaxVideoBytes
	}
	return l.MaxImageBytes
}

// allowed content types and the extension used when the file name has none
var allowedTypes = map[domain.MediaKind]map[string]string{
	domain.MediaImage: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	},
	domain.MediaVideo: {
		"video/mp4":       ".mp4",
		"video/webm":      ".webm",
		"video/quicktime": ".mov",
	},
}

// MediaService validates and stores images and videos for rooms, services and the gallery.
type MediaService struct {
	store   domain.ObjectStore
	limits  MediaLimits
	workers int
	now     func() time.Time
}

func NewMediaService(store domain.ObjectStore, limits MediaLimits, workers int) *MediaService {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = 10 * MB
	}
	if limits.MaxVideoBytes <= 0 {
		limits.MaxVideoBytes = 100 * MB
	}
	if workers <= 0 {
		workers = 4
	}
	return &MediaService{store: store, limits: limits, workers: workers, now: time.Now}
}

func (s *MediaService) Limits() MediaLimits { return s.limits }

func contentType(f domain.UploadFile) string {
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return strings.ToLower(mt)
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// ValidateBatch rejects the whole batch on the first problem: count, then type, then size.
func (s *MediaService) ValidateBatch(kind domain.MediaKind, existing int, files []domain.UploadFile) error {
	types, ok := allowedTypes[kind]
	if !ok {
		return domain.Invalid("kind", fmt.Sprintf("unknown media kind %q", kind))
	}
	if len(files) == 0 {
		return domain.Invalid("files", "no files selected")
	}
	if existing+len(files) > s.limits.MaxFiles {
		return domain.Invalid("files", fmt.Sprintf("at most %d %ss allowed, %d already present", s.limits.MaxFiles, kind, existing))
	}
	for _, f := range files {
		if _, ok := types[contentType(f)]; !ok {
			return domain.Invalid("files", fmt.Sprintf("%s: type %q is not allowed", f.Name, contentType(f)))
		}
	}
	limit := s.limits.maxBytes(kind)
	for _, f := range files {
		if f.Size > limit {
			return domain.Invalid("files", fmt.Sprintf("%s: larger than %d MB", f.Name, limit/MB))
		}
	}
	return nil
}

// objectName is folder/<unix millis>-<random>.<ext>, keeping the original extension.
func (s *MediaService) objectName(folder string, f domain.UploadFile, kind domain.MediaKind) string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if ext == "" {
		ext = allowedTypes[kind][contentType(f)]
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), suffix, ext)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// Upload validates the batch, uploads each file and returns existing with the new public URLs appended
// in input order. If any upload fails the ones already stored are removed and existing is returned unchanged.
func (s *MediaService) Upload(ctx context.Context, bucket domain.Bucket, folder string, kind domain.MediaKind, existing []string, files []domain.UploadFile) ([]string, error) {
	if !bucket.Valid() {
		return existing, domain.Invalid("bucket", fmt.Sprintf("unknown bucket %q", bucket))
	}
	if err := s.ValidateBatch(kind, len(existing), files); err != nil {
		return existing, err
	}

	paths := make([]string, len(files))
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		paths[i] = s.objectName(folder, f, kind)
		g.Go(func() error {
			if _, err := s.store.Upload(gctx, bucket, paths[i], contentType(f), f.Body); err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			urls[i] = s.store.PublicURL(bucket, paths[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var done []string
		for i, u := range urls {
			if u != "" {
				done = append(done, paths[i])
			}
		}
		if len(done) > 0 {
			if rerr := s.store.Remove(context.WithoutCancel(ctx), bucket, done); rerr != nil {
				log.Warn().Err(rerr).Strs("paths", done).Msg("cleanup after failed upload")
			}
		}
		return existing, domain.Gateway("upload media", err)
	}

	out := make([]string, 0, len(existing)+len(urls))
	out = append(out, existing...)
	return append(out, urls...), nil
}

// AddURL appends a pasted link after a syntax check only; the target is never fetched.
func (s *MediaService) AddURL(existing []string, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return existing, domain.Invalid("url", "invalid URL")
	}
	out := make([]string, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, raw), nil
}

// objectPath extracts the path inside bucket from a public URL, or "" when the URL is not ours.
func objectPath(bucket domain.Bucket, rawURL string) string {
	if !strings.Contains(rawURL, string(bucket)) {
		return ""
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	marker := "/" + string(bucket) + "/"
	i := strings.Index(p, marker)
	if i < 0 {
		return ""
	}
	return p[i+len(marker):]
}

// RemoveObject deletes the stored object behind url when it lives in bucket.
// It reports whether a storage call was made.
func (s *MediaService) RemoveObject(ctx context.Context, bucket domain.Bucket, rawURL string) (bool, error) {
	p := objectPath(bucket, rawURL)
	if p == "" {
		return false, nil
	}
	if err := s.store.Remove(ctx, bucket, []string{p}); err != nil {
		return true, domain.Gateway("remove media", err)
	}
	return true, nil
}

// Discard deletes freshly uploaded objects that never made it into a saved list.
// Failures are only logged.
func (s *MediaService) Discard(ctx context.Context, bucket domain.Bucket, urls []string) {
	var paths []string
	for _, u := range urls {
		if p := objectPath(bucket, u); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	if err := s.store.Remove(context.WithoutCancel(ctx), bucket, paths); err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("discard unsaved media")
	}
}

// Remove drops url from list, deleting the stored object first when it belongs to bucket.
func (s *MediaService) Remove(ctx context.Context, bucket domain.Bucket, list []string, rawURL string) ([]string, error) {
	if _, err := s.RemoveObject(ctx, bucket, rawURL); err != nil {
		return list, err
	}
	out := make([]string, 0, len(list))
	for _, u := range list {
		if u != rawURL {
			out = append(out, u)
		}
	}
	return out, nil
}
