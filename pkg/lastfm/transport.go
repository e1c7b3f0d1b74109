package lastfm

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Base represents the root XML response from the Last.fm API.
//
// XMLName is left untyped so legacy feeds, which are not wrapped in <lfm>,
// decode as well.
type Base struct {
	XMLName xml.Name
	Status  string `xml:"status,attr"`
	Inner   []byte `xml:",innerxml"`
}

// APIError represents an error response from the Last.fm API.
type APIError struct {
	Code    int    `xml:"code,attr"`
	Message string `xml:",chardata"`
}

const (
	apiStatusOK     = "ok"
	apiStatusFailed = "failed"
)

// request performs an unsigned GET for a read-only API method and returns
// the parsed document root.
func (c *Client) request(ctx context.Context, method string, params map[string]string) (*Node, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("method", method)
	query.Set("api_key", c.apiKey)

	target := c.baseURL
	if strings.Contains(target, "?") {
		target += "&" + query.Encode()
	} else {
		target += "?" + query.Encode()
	}

	body, _, err := c.roundTrip(ctx, method, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// requestPath performs a GET against a path relative to the API host, as
// used by the legacy per-user feeds, and returns the parsed document root.
func (c *Client) requestPath(ctx context.Context, path string) (*Node, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, argumentError("path", err.Error())
	}
	target := base.ResolveReference(ref).String()

	body, _, err := c.roundTrip(ctx, path, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// call makes a signed POST to the Last.fm API and returns the inner XML of
// the <lfm> element.
//
// It handles:
// - Request construction with proper headers
// - Signature calculation for authenticated requests
// - Error handling and retry logic
// - Context cancellation
func (c *Client) call(ctx context.Context, method string, params map[string]string, requiresAuth bool) ([]byte, error) {
	if c.apiSecret == "" {
		return nil, fmt.Errorf("%w: APISecret is required for %s", ErrInvalidConfig, method)
	}

	reqParams := make(map[string]string)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["api_key"] = c.apiKey

	if requiresAuth {
		if c.sessionKey == "" {
			return nil, ErrNoSessionKey
		}
		reqParams["sk"] = c.sessionKey
	}

	signature := sign(reqParams, c.apiSecret)

	formData := url.Values{}
	for k, v := range reqParams {
		formData.Add(k, v)
	}
	formData.Add("api_sig", signature)
	encoded := formData.Encode()

	_, inner, err := c.roundTrip(ctx, method, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	return inner, err
}

// roundTrip sends the request built by newRequest, retrying network
// failures, 5xx responses and temporary Last.fm errors with exponential
// backoff. It returns the raw body and, for <lfm> documents, the inner XML.
func (c *Client) roundTrip(ctx context.Context, label string, newRequest func() (*http.Request, error)) ([]byte, []byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for i := 0; i < c.maxRetries; i++ {
		c.logDebugf("lastfm: calling %s (attempt %d/%d)", label, i+1, c.maxRetries)

		req, err := newRequest()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if shouldRetryNetworkError(err) && i < c.maxRetries-1 {
				c.logDebugf("lastfm: network error, retrying: %v", err)
				if !sleep(ctx, backoff) {
					return nil, nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, nil, fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read response: %w", err)
		}

		var base Base
		parseErr := xml.Unmarshal(body, &base)
		isLFM := parseErr == nil && base.XMLName.Local == "lfm"

		// Last.fm reports most failures as an <lfm status="failed"> document,
		// sometimes with a 4xx status attached.
		if isLFM && base.Status == apiStatusFailed {
			var apiErr APIError
			if err := xml.Unmarshal(base.Inner, &apiErr); err != nil {
				return nil, nil, fmt.Errorf("failed to parse error response: %w", err)
			}
			lastErr = &Error{Code: apiErr.Code, Message: strings.TrimSpace(apiErr.Message)}
		} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		} else if parseErr != nil {
			return nil, nil, fmt.Errorf("failed to parse XML response: %w", parseErr)
		} else {
			c.logDebugf("lastfm: %s succeeded", label)
			return body, base.Inner, nil
		}

		if isRetryableError(lastErr) && i < c.maxRetries-1 {
			c.logDebugf("lastfm: temporary error, retrying: %v", lastErr)
			if !sleep(ctx, backoff) {
				return nil, nil, ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		return nil, nil, lastErr
	}

	return nil, nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// shouldRetryNetworkError checks if a network error is retryable.
func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(duration):
		return true
	}
}

// nextBackoff calculates the next backoff duration with exponential increase.
// Maximum backoff is capped at 30 seconds.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 30*time.Second {
		return 30 * time.Second
	}
	return next
}

// unmarshalInner decodes the inner XML returned by call into v.
func unmarshalInner(data []byte, v any) error {
	wrapped := make([]byte, 0, len(data)+13)
	wrapped = append(wrapped, "<root>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</root>"...)
	return xml.Unmarshal(wrapped, v)
}
