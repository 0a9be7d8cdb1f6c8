// Package client is a typed HTTP client for the sitecms admin API. It is
// shared by the dashboard mirror and the public site read helpers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// RequestError wraps a failed API call with the operation name and the
// HTTP status the server answered with (0 when the request never made it).
type RequestError struct {
	Op         string
	StatusCode int
	Code       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Client talks to one sitecms deployment. The zero value is not usable,
// construct it with New.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("client: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// SetToken installs the bearer token used for mutating calls. Login does
// this automatically.
func (c *Client) SetToken(token string) { c.token = token }

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type loginEnvelope struct {
	Data struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"data"`
}

// Login authenticates the admin and keeps the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (time.Time, error) {
	body := map[string]string{"email": email, "password": password}
	var env loginEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &env); err != nil {
		return time.Time{}, err
	}
	c.token = env.Data.Token
	return env.Data.ExpiresAt, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err == nil {
		c.token = ""
	}
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "code": code, "newPassword": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	return listResource[Post](ctx, c, "/api/posts")
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	return createResource[Post](ctx, c, "/api/posts", in)
}

func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (Post, error) {
	return updateResource[Post](ctx, c, "/api/posts", id, in)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/posts", id)
}

func (c *Client) CorporateVideos(ctx context.Context) ([]CorporateVideo, error) {
	return listResource[CorporateVideo](ctx, c, "/api/corporate-videos")
}

func (c *Client) CreateCorporateVideo(ctx context.Context, in CorporateVideoInput) (CorporateVideo, error) {
	return createResource[CorporateVideo](ctx, c, "/api/corporate-videos", in)
}

func (c *Client) UpdateCorporateVideo(ctx context.Context, id string, in CorporateVideoInput) (CorporateVideo, error) {
	return updateResource[CorporateVideo](ctx, c, "/api/corporate-videos", id, in)
}

func (c *Client) DeleteCorporateVideo(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/corporate-videos", id)
}

func (c *Client) Reels(ctx context.Context) ([]Reel, error) {
	return listResource[Reel](ctx, c, "/api/reels")
}

func (c *Client) CreateReel(ctx context.Context, in ReelInput) (Reel, error) {
	return createResource[Reel](ctx, c, "/api/reels", in)
}

func (c *Client) UpdateReel(ctx context.Context, id string, in ReelInput) (Reel, error) {
	return updateResource[Reel](ctx, c, "/api/reels", id, in)
}

func (c *Client) DeleteReel(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/reels", id)
}

func (c *Client) TeamVideos(ctx context.Context) ([]TeamVideo, error) {
	return listResource[TeamVideo](ctx, c, "/api/team-videos")
}

func (c *Client) CreateTeamVideo(ctx context.Context, in TeamVideoInput) (TeamVideo, error) {
	return createResource[TeamVideo](ctx, c, "/api/team-videos", in)
}

func (c *Client) UpdateTeamVideo(ctx context.Context, id string, in TeamVideoInput) (TeamVideo, error) {
	return updateResource[TeamVideo](ctx, c, "/api/team-videos", id, in)
}

func (c *Client) DeleteTeamVideo(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/team-videos", id)
}

func (c *Client) Testimonials(ctx context.Context) ([]Testimonial, error) {
	return listResource[Testimonial](ctx, c, "/api/testimonials")
}

func (c *Client) CreateTestimonial(ctx context.Context, in TestimonialInput) (Testimonial, error) {
	return createResource[Testimonial](ctx, c, "/api/testimonials", in)
}

func (c *Client) UpdateTestimonial(ctx context.Context, id string, in TestimonialInput) (Testimonial, error) {
	return updateResource[Testimonial](ctx, c, "/api/testimonials", id, in)
}

func (c *Client) DeleteTestimonial(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/testimonials", id)
}

func (c *Client) Blogs(ctx context.Context) ([]Blog, error) {
	return listResource[Blog](ctx, c, "/api/blogs")
}

func (c *Client) CreateBlog(ctx context.Context, in BlogInput) (Blog, error) {
	return createResource[Blog](ctx, c, "/api/blogs", in)
}

func (c *Client) UpdateBlog(ctx context.Context, id string, in BlogInput) (Blog, error) {
	return updateResource[Blog](ctx, c, "/api/blogs", id, in)
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/blogs", id)
}

func (c *Client) Services(ctx context.Context) ([]Service, error) {
	return listResource[Service](ctx, c, "/api/services")
}

func (c *Client) CreateService(ctx context.Context, in ServiceInput) (Service, error) {
	return createResource[Service](ctx, c, "/api/services", in)
}

func (c *Client) UpdateService(ctx context.Context, id string, in ServiceInput) (Service, error) {
	return updateResource[Service](ctx, c, "/api/services", id, in)
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/services", id)
}

func listResource[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func createResource[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var out T
	err := c.doJSON(ctx, http.MethodPost, path, in, &out)
	return out, err
}

func updateResource[T any](ctx context.Context, c *Client, path, id string, in any) (T, error) {
	var out T
	err := c.doJSON(ctx, http.MethodPut, path+"/"+id, in, &out)
	return out, err
}

func (c *Client) deleteResource(ctx context.Context, path, id string) error {
	return c.doJSON(ctx, http.MethodDelete, path+"/"+id, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody, responseBody any) error {
	op := method + " " + path

	var reader io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		cause := errors.New(apiErr.Message)
		switch resp.StatusCode {
		case http.StatusNotFound:
			cause = ErrNotFound
		case http.StatusUnauthorized:
			cause = ErrUnauthorized
		}
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Code: apiErr.Code, Err: cause}
	}

	if responseBody == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, responseBody); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
