package handlers

import (
	"errors"
	"net/http"

	"github.com/okazarov/sitecms/internal/domain/content"
	mediasvc "github.com/okazarov/sitecms/internal/services/media"
	pagesvc "github.com/okazarov/sitecms/internal/services/pages"
	postsvc "github.com/okazarov/sitecms/internal/services/posts"
	videosvc "github.com/okazarov/sitecms/internal/services/videos"
	"github.com/okazarov/sitecms/internal/transport/http/dto"
	httperrors "github.com/okazarov/sitecms/internal/transport/http/errors"
)

type PostsHandler struct {
	service  *postsvc.Service
	maxBytes int64
}

func NewPostsHandler(service *postsvc.Service, maxBytes int64) *PostsHandler {
	return &PostsHandler{service: service, maxBytes: maxBytes}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	posts, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list posts")
		return
	}
	if posts == nil {
		posts = []content.Post{}
	}

	httperrors.Write(w, http.StatusOK, posts)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	image, ok := h.imagePayload(w, r)
	if !ok {
		return
	}

	post, err := h.service.Create(r.Context(), postsvc.CreateInput{Image: image})
	if err != nil {
		writeContentError(w, err, "post")
		return
	}

	httperrors.Write(w, http.StatusCreated, post)
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	image, ok := h.imagePayload(w, r)
	if !ok {
		return
	}

	post, err := h.service.Update(r.Context(), id, postsvc.UpdateInput{Image: image})
	if err != nil {
		writeContentError(w, err, "post")
		return
	}

	httperrors.Write(w, http.StatusOK, post)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeContentError(w, err, "post")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "post deleted"})
}

// imagePayload pulls the image out of either a multipart form or a JSON
// body. Multipart files are re-encoded as data URIs before they reach the
// service.
func (h *PostsHandler) imagePayload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
			return "", false
		}
		image, found, err := formFileAsDataURI(r, "image", h.maxBytes)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "failed to read uploaded file")
			return "", false
		}
		if !found {
			image = r.FormValue("image")
		}
		return image, true
	}

	var req dto.PostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return "", false
	}
	return req.Image, true
}

// writeContentError maps the shared service error taxonomy onto HTTP codes.
func writeContentError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", entity+" not found")
	case errors.Is(err, mediasvc.ErrUnsupportedType):
		writeBadRequest(w, "UNSUPPORTED_MEDIA_TYPE", "uploaded file type is not allowed")
	case errors.Is(err, mediasvc.ErrTooLarge):
		writeBadRequest(w, "FILE_TOO_LARGE", "uploaded file exceeds the size limit")
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid media payload")
	case errors.Is(err, postsvc.ErrValidation),
		errors.Is(err, videosvc.ErrValidation),
		errors.Is(err, pagesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", entity+" validation failed")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process "+entity)
	}
}
