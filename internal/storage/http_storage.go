package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

// Banner holds a fetched creative: the encoded bytes plus the decoded
// pixel dimensions.
type Banner struct {
	URL    string
	Data   []byte
	Width  int
	Height int
}

// BannerFetcher retrieves banner creatives by URL.
type BannerFetcher interface {
	FetchBanner(ctx context.Context, bannerURL string) (*Banner, error)
}

// HTTPBannerFetcher implements BannerFetcher over HTTP with retries.
type HTTPBannerFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPBannerFetcher creates an HTTP banner fetcher. maxBytes caps the
// response body size; zero or negative means a 32 MiB default.
func NewHTTPBannerFetcher(timeout time.Duration, maxBytes int64) BannerFetcher {
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPBannerFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

// FetchBanner downloads the banner and decodes its pixel dimensions.
// Transient failures and 5xx responses are retried up to 3 attempts;
// 4xx responses fail immediately.
func (h *HTTPBannerFetcher) FetchBanner(ctx context.Context, bannerURL string) (*Banner, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bannerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/gif, */*")
	req.Header.Set("User-Agent", "Banner-QA/1.0")

	var body []byte
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
			}
			lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			continue
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if int64(len(body)) > h.maxBytes {
			return nil, fmt.Errorf("banner exceeds size limit of %d bytes", h.maxBytes)
		}
		return decodeBanner(bannerURL, body)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("unknown error")
	}
	return nil, fmt.Errorf("failed to fetch banner after 3 attempts: %w", lastErr)
}

// decodeBanner reads the image header for pixel dimensions without fully
// decoding the pixels.
func decodeBanner(bannerURL string, data []byte) (*Banner, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode banner: %w", err)
	}
	return &Banner{
		URL:    bannerURL,
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
