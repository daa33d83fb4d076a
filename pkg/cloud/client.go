// Package cloud uploads images to Cloudinary with a transformation applied on
// arrival and downloads the transformed results.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dixieflatline76/Cornermark/util/log"
)

// Credentials identify a Cloudinary account.
type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// UploadResult is the subset of the upload response the batch needs.
type UploadResult struct {
	PublicID  string   `json:"public_id"`
	Version   int64    `json:"version"`
	Format    string   `json:"format"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Bytes     int64    `json:"bytes"`
	URL       string   `json:"url"`
	SecureURL string   `json:"secure_url"`
	Tags      []string `json:"tags"`
}

// APIError is returned when Cloudinary answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cloudinary returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("cloudinary returned status %d: %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Cloudinary upload API.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	tags       []string
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTags tags every uploaded image.
func WithTags(tags ...string) Option {
	return func(c *Client) { c.tags = append(c.tags, tags...) }
}

// NewClient creates a Client for the given account.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends the image at path to Cloudinary with transformation applied as
// an incoming transformation. transformation is a named transformation; see
// NamedTransformation.
func (c *Client) Upload(ctx context.Context, path, transformation string) (*UploadResult, error) {
	if c.creds.CloudName == "" || c.creds.APIKey == "" || c.creds.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are incomplete")
	}

	params := map[string]string{
		"timestamp":      strconv.FormatInt(c.now().Unix(), 10),
		"transformation": NamedTransformation(transformation),
	}
	if len(c.tags) > 0 {
		params["tags"] = strings.Join(c.tags, ",")
	}
	params["signature"] = Sign(params, c.creds.APISecret)
	params["api_key"] = c.creds.APIKey

	body, contentType, err := multipartBody(path, params)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + fmt.Sprintf(uploadPathFmt, c.creds.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	log.Debugf("Uploading %s to %s with transformation %s", path, endpoint, params["transformation"])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &result, nil
}

// Download fetches url into dst, creating parent directories as needed. A
// partially written file is removed on failure.
func (c *Client) Download(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}

func multipartBody(path string, params map[string]string) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		apiErr.Message = er.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	log.Printf("Cloudinary API Error: %s", apiErr.Message)
	return apiErr
}
