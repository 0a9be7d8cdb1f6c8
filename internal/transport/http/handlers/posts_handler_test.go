package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/okazarov/sitecms/internal/domain/content"
	"github.com/okazarov/sitecms/internal/services/media"
	postsvc "github.com/okazarov/sitecms/internal/services/posts"
)

type postStore struct {
	posts map[uuid.UUID]content.Post
}

func (s *postStore) Insert(_ context.Context, post content.Post) (content.Post, error) {
	s.posts[post.ID] = post
	return post, nil
}

func (s *postStore) List(_ context.Context) ([]content.Post, error) {
	out := make([]content.Post, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, post)
	}
	return out, nil
}

func (s *postStore) Get(_ context.Context, id uuid.UUID) (content.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return content.Post{}, content.ErrNotFound
	}
	return post, nil
}

func (s *postStore) Update(_ context.Context, post content.Post) (content.Post, error) {
	if _, ok := s.posts[post.ID]; !ok {
		return content.Post{}, content.ErrNotFound
	}
	s.posts[post.ID] = post
	return post, nil
}

func (s *postStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.posts[id]; !ok {
		return content.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

type stubMedia struct {
	uploads int
}

func (m *stubMedia) UploadDataURI(_ context.Context, kind, _ string) (media.Asset, error) {
	m.uploads++
	key := fmt.Sprintf("%s/object-%d.png", kind, m.uploads)
	return media.Asset{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (m *stubMedia) Link(_ context.Context, _ string, _ uuid.UUID) error { return nil }

func (m *stubMedia) Delete(_ context.Context, _ string) error { return nil }

func newPostsRouter(t *testing.T) (chi.Router, *postStore) {
	t.Helper()

	store := &postStore{posts: make(map[uuid.UUID]content.Post)}
	service := postsvc.NewService(store, &stubMedia{}, nil)
	handler := NewPostsHandler(service, 5<<20)

	r := chi.NewRouter()
	r.Get("/api/posts", handler.List)
	r.Post("/api/posts", handler.Create)
	r.Put("/api/posts/{id}", handler.Update)
	r.Delete("/api/posts/{id}", handler.Delete)

	return r, store
}

func TestListPostsEmptyReturnsArray(t *testing.T) {
	r, _ := newPostsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	if body := bytes.TrimSpace(rr.Body.Bytes()); string(body) != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestCreatePostFromInlineImage(t *testing.T) {
	r, store := newPostsRouter(t)

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	body, _ := json.Marshal(map[string]string{"image": dataURI})

	req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}

	var post content.Post
	if err := json.Unmarshal(rr.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if post.ImageURL == "" {
		t.Fatal("expected image url in response")
	}
	if len(store.posts) != 1 {
		t.Fatalf("expected one stored post, got %d", len(store.posts))
	}
}

func TestCreatePostFromMultipartUpload(t *testing.T) {
	r, store := newPostsRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	if len(store.posts) != 1 {
		t.Fatalf("expected one stored post, got %d", len(store.posts))
	}
}

func TestCreatePostRejectsEmptyBody(t *testing.T) {
	r, _ := newPostsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateUnknownPostReturns404(t *testing.T) {
	r, _ := newPostsRouter(t)

	body, _ := json.Marshal(map[string]string{"image": "https://example.com/x.jpg"})
	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeletePostTwiceReturns404(t *testing.T) {
	r, store := newPostsRouter(t)

	id := uuid.New()
	store.posts[id] = content.Post{ID: id, ImageURL: "https://example.com/x.jpg"}

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/"+id.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/posts/"+id.String(), nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rr.Code)
	}
}

func TestDeletePostRejectsMalformedID(t *testing.T) {
	r, _ := newPostsRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
