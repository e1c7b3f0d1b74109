package lastfm

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIKey       string        // Required: Last.fm API key
	APISecret    string        // Optional: API secret, required for auth and scrobbling
	SessionKey   string        // Optional: Session key for authenticated requests
	HTTPClient   *http.Client  // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL      string        // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	Logger       Logger        // Optional: Logger interface for debug logging
	MaxRetries   int           // Optional: attempts per request (defaults to 3)
	RetryBackoff time.Duration // Optional: first backoff between attempts (defaults to 1s)
	CacheKeying  CacheKeying   // Optional: response cache key strategy (defaults to CacheKeyByArguments)
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	apiKey       string
	apiSecret    string
	sessionKey   string
	httpClient   *http.Client
	baseURL      string
	logger       Logger
	maxRetries   int
	retryBackoff time.Duration
	cacheKeying  CacheKeying

	auth     *AuthService
	scrobble *ScrobbleService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	defaultMaxRetries   = 3
	defaultRetryBackoff = 1 * time.Second
	userAgent           = "scrobbler/1.0"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if the APIKey is missing. The secret is only checked
// when a signed call is made.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	c := &Client{
		apiKey:       cfg.APIKey,
		apiSecret:    cfg.APISecret,
		sessionKey:   cfg.SessionKey,
		httpClient:   httpClient,
		baseURL:      baseURL,
		logger:       cfg.Logger,
		maxRetries:   maxRetries,
		retryBackoff: backoff,
		cacheKeying:  cfg.CacheKeying,
	}

	c.auth = &AuthService{client: c}
	c.scrobble = &ScrobbleService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Scrobble returns the scrobbling service.
func (c *Client) Scrobble() *ScrobbleService {
	return c.scrobble
}

// SetSessionKey sets the session key for authenticated requests.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
}

// GetSessionKey returns the current session key.
func (c *Client) GetSessionKey() string {
	return c.sessionKey
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
