// internal/adapters/objectstore/client.go
package objectstore

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_site/internal/adapters/observability"
	"hotel_site/internal/domain"
)

// Client talks to a hosted bucket storage REST API (Supabase-compatible paths).
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("storage API key is required")
	}
	if _, err := url.Parse(base); err != nil || base == "" {
		return nil, fmt.Errorf("storage base URL %q is invalid", base)
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 2 * time.Minute},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrUnauthorized = errors.New("storage: unauthorized")
	ErrForbidden    = errors.New("storage: forbidden")
)

// ---- domain.ObjectStore ----

// Upload stores body at bucket/path. It is sent exactly once: with x-upsert false a replayed
// POST whose first attempt landed fails as a duplicate, so failures go back to the caller.
func (c *Client) Upload(ctx context.Context, bucket domain.Bucket, path, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.base, bucket, escapePath(path))
	hdr := http.Header{}
	hdr.Set("Content-Type", contentType)
	hdr.Set("Cache-Control", "max-age=3600")
	hdr.Set("x-upsert", "false")
	var out struct {
		Key string `json:"Key"`
	}
	if err := c.do(ctx, "upload", http.MethodPost, u, hdr, b, &out, 1); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Client) PublicURL(bucket domain.Bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.base, bucket, escapePath(path))
}

func (c *Client) Remove(ctx context.Context, bucket domain.Bucket, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	b, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	u := fmt.Sprintf("%s/storage/v1/object/%s", c.base, bucket)
	return c.do(ctx, "remove", http.MethodDelete, u, hdr, b, nil, removeAttempts)
}

// ---- Internals ----

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// removeAttempts bounds retries of the idempotent prefix delete.
const removeAttempts = 4

// do sends a request with client-side rate limiting, decoding JSON into out when non-nil.
// With attempts > 1 it retries transport errors, 429 and transient 5xx, honoring Retry-After.
func (c *Client) do(ctx context.Context, endpoint, method, url string, hdr http.Header, body []byte, out any, attempts int) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		last := i == attempts-1
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		for k, v := range hdr {
			req.Header[k] = v
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("apikey", c.key)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotel-site/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("storage", endpoint, 0, err, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("storage %s: %w", endpoint, err)
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("storage", endpoint, resp.StatusCode, nil, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			defer resp.Body.Close()
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
				return err
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			lastErr = fmt.Errorf("storage %s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
			if last {
				return lastErr
			}
			if sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("storage %s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
