package weburl

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "gitscaffold"
	defaultMaxBodySize = 10 * 1024 * 1024 // 10 MB
	maxRedirects       = 5
)

// Fetcher retrieves web content with SSRF checks enforced at dial time,
// so DNS answers pointing at private ranges are rejected even when the
// hostname itself looked fine.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// NewFetcher creates a fetcher with safe defaults.
func NewFetcher() *Fetcher {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	safeDialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}

		for _, ipAddr := range ips {
			if IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			connAddr := net.JoinHostPort(ipAddr.IP.String(), port)
			conn, err := dialer.DialContext(ctx, network, connAddr)
			if err == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}

	transport := &http.Transport{
		DialContext:           safeDialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: defaultTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				if err := ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}
}

// Fetch retrieves the document at urlStr, returning the raw body and its
// Content-Type. The URL is validated before any request is made.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, string, error) {
	if err := ValidateURL(urlStr); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown;q=0.9,text/plain;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	limitReader := io.LimitReader(resp.Body, f.maxBodySize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > f.maxBodySize {
		return nil, "", fmt.Errorf("content too large (exceeds %d bytes)", f.maxBodySize)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// FetchMarkdown fetches urlStr and returns its content as markdown. HTML
// responses go through article extraction and conversion; markdown and
// plain-text responses pass through unchanged.
func (f *Fetcher) FetchMarkdown(ctx context.Context, urlStr string) (*Document, error) {
	body, contentType, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	if isHTML(contentType, body) {
		return Convert(body, urlStr)
	}

	return &Document{Markdown: string(body)}, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "xhtml") {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html")
}
