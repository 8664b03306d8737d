// Package tplink talks to the LuCI based admin API of TP-Link Archer and Deco
// routers.
package tplink

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/fbettag/router-stats/internal/router"
	"github.com/hashicorp/go-cleanhttp"
)

// Config holds the connection settings for one router.
type Config struct {
	URL       string
	Password  string
	VerifySSL bool
	Timeout   time.Duration
}

// Client is a single admin session against a TP-Link router. The router
// allows one logged in admin at a time.
type Client struct {
	baseURL  string
	password string
	http     *http.Client
	stok     string
	logger   router.Logger
}

var _ router.Client = (*Client)(nil)

// NewClient creates a client. No request is made until Authorize.
func NewClient(cfg Config, logger router.Logger) *Client {
	transport := cleanhttp.DefaultTransport()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // routers ship self-signed certificates
	}

	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		password: cfg.Password,
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// APIError is returned when the router answers with success=false.
type APIError struct {
	Path string
	Code string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("router rejected %s", e.Path)
	}
	return fmt.Sprintf("router rejected %s: %s", e.Path, e.Code)
}

type envelope struct {
	Success   bool              `json:"success"`
	ErrorCode router.FlexString `json:"errorcode"`
	Data      json.RawMessage   `json:"data"`
}

// Request posts payload to an admin API path such as
// "admin/status?form=all&operation=read" and returns the data member of the
// response envelope.
func (c *Client) Request(path, payload string) (json.RawMessage, error) {
	if c.stok == "" {
		return nil, router.ErrNotLoggedIn
	}
	return c.post(path, payload)
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/cgi-bin/luci/;stok=%s/%s", c.baseURL, c.stok, strings.TrimLeft(path, "/"))
}

func (c *Client) post(path, payload string) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodPost, c.endpoint(path), strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Referer", c.baseURL+"/webpages/index.html")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")

	c.logger.Debugf("POST %s", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("router returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	if !env.Success {
		return nil, &APIError{Path: path, Code: env.ErrorCode.Val}
	}

	return env.Data, nil
}
