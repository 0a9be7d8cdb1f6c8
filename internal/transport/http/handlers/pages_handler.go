package handlers

import (
	"net/http"

	"github.com/okazarov/sitecms/internal/domain/content"
	pagesvc "github.com/okazarov/sitecms/internal/services/pages"
	"github.com/okazarov/sitecms/internal/transport/http/dto"
	httperrors "github.com/okazarov/sitecms/internal/transport/http/errors"
)

// PagesHandler serves blogs, testimonials and service pages.
type PagesHandler struct {
	service  *pagesvc.Service
	maxBytes int64
}

func NewPagesHandler(service *pagesvc.Service, maxBytes int64) *PagesHandler {
	return &PagesHandler{service: service, maxBytes: maxBytes}
}

func (h *PagesHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	blogs, err := h.service.ListBlogs(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list blogs")
		return
	}
	if blogs == nil {
		blogs = []content.Blog{}
	}

	httperrors.Write(w, http.StatusOK, blogs)
}

func (h *PagesHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	input, ok := h.blogPayload(w, r)
	if !ok {
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), input)
	if err != nil {
		writeContentError(w, err, "blog")
		return
	}

	httperrors.Write(w, http.StatusCreated, blog)
}

func (h *PagesHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid blog id")
		return
	}

	input, ok := h.blogPayload(w, r)
	if !ok {
		return
	}

	blog, err := h.service.UpdateBlog(r.Context(), id, input)
	if err != nil {
		writeContentError(w, err, "blog")
		return
	}

	httperrors.Write(w, http.StatusOK, blog)
}

func (h *PagesHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid blog id")
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id); err != nil {
		writeContentError(w, err, "blog")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "blog deleted"})
}

func (h *PagesHandler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	testimonials, err := h.service.ListTestimonials(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list testimonials")
		return
	}
	if testimonials == nil {
		testimonials = []content.Testimonial{}
	}

	httperrors.Write(w, http.StatusOK, testimonials)
}

func (h *PagesHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	var req dto.TestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	testimonial, err := h.service.CreateTestimonial(r.Context(), testimonialInput(req))
	if err != nil {
		writeContentError(w, err, "testimonial")
		return
	}

	httperrors.Write(w, http.StatusCreated, testimonial)
}

func (h *PagesHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid testimonial id")
		return
	}

	var req dto.TestimonialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	testimonial, err := h.service.UpdateTestimonial(r.Context(), id, testimonialInput(req))
	if err != nil {
		writeContentError(w, err, "testimonial")
		return
	}

	httperrors.Write(w, http.StatusOK, testimonial)
}

func (h *PagesHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid testimonial id")
		return
	}

	if err := h.service.DeleteTestimonial(r.Context(), id); err != nil {
		writeContentError(w, err, "testimonial")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "testimonial deleted"})
}

func (h *PagesHandler) ListServicePages(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	pages, err := h.service.ListServicePages(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list services")
		return
	}
	if pages == nil {
		pages = []content.ServicePage{}
	}

	httperrors.Write(w, http.StatusOK, pages)
}

func (h *PagesHandler) CreateServicePage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	var req dto.ServicePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	page, err := h.service.CreateServicePage(r.Context(), pagesvc.ServicePageInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		writeContentError(w, err, "service")
		return
	}

	httperrors.Write(w, http.StatusCreated, page)
}

func (h *PagesHandler) UpdateServicePage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid service id")
		return
	}

	var req dto.ServicePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	page, err := h.service.UpdateServicePage(r.Context(), id, pagesvc.ServicePageInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		writeContentError(w, err, "service")
		return
	}

	httperrors.Write(w, http.StatusOK, page)
}

func (h *PagesHandler) DeleteServicePage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAGES_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid service id")
		return
	}

	if err := h.service.DeleteServicePage(r.Context(), id); err != nil {
		writeContentError(w, err, "service")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "service deleted"})
}

func (h *PagesHandler) blogPayload(w http.ResponseWriter, r *http.Request) (pagesvc.BlogInput, bool) {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
			return pagesvc.BlogInput{}, false
		}
		cover, found, err := formFileAsDataURI(r, "cover", h.maxBytes)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "failed to read uploaded file")
			return pagesvc.BlogInput{}, false
		}
		if !found {
			cover = r.FormValue("cover")
		}
		return pagesvc.BlogInput{
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
			Cover:   cover,
		}, true
	}

	var req dto.BlogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return pagesvc.BlogInput{}, false
	}
	return pagesvc.BlogInput{Title: req.Title, Content: req.Content, Cover: req.Cover}, true
}

func testimonialInput(req dto.TestimonialRequest) pagesvc.TestimonialInput {
	return pagesvc.TestimonialInput{
		Author:   req.Author,
		Role:     req.Role,
		Company:  req.Company,
		Quote:    req.Quote,
		VideoURL: req.VideoURL,
		Avatar:   req.Avatar,
	}
}
