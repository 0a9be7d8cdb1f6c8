package handlers

import (
	"net/http"

	"github.com/okazarov/sitecms/internal/domain/content"
	videosvc "github.com/okazarov/sitecms/internal/services/videos"
	"github.com/okazarov/sitecms/internal/transport/http/dto"
	httperrors "github.com/okazarov/sitecms/internal/transport/http/errors"
)

// VideosHandler serves corporate videos, reels and team videos. The
// /api/videos routes are an alias for corporate videos.
type VideosHandler struct {
	service  *videosvc.Service
	maxBytes int64
}

func NewVideosHandler(service *videosvc.Service, maxBytes int64) *VideosHandler {
	return &VideosHandler{service: service, maxBytes: maxBytes}
}

func (h *VideosHandler) ListCorporate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	videos, err := h.service.ListCorporate(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list corporate videos")
		return
	}
	if videos == nil {
		videos = []content.CorporateVideo{}
	}

	httperrors.Write(w, http.StatusOK, videos)
}

func (h *VideosHandler) CreateCorporate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	var req dto.CorporateVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	video, err := h.service.CreateCorporate(r.Context(), corporateInput(req))
	if err != nil {
		writeContentError(w, err, "corporate video")
		return
	}

	httperrors.Write(w, http.StatusCreated, video)
}

func (h *VideosHandler) UpdateCorporate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid corporate video id")
		return
	}

	var req dto.CorporateVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	video, err := h.service.UpdateCorporate(r.Context(), id, corporateInput(req))
	if err != nil {
		writeContentError(w, err, "corporate video")
		return
	}

	httperrors.Write(w, http.StatusOK, video)
}

func (h *VideosHandler) DeleteCorporate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid corporate video id")
		return
	}

	if err := h.service.DeleteCorporate(r.Context(), id); err != nil {
		writeContentError(w, err, "corporate video")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "corporate video deleted"})
}

func (h *VideosHandler) ListReels(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	reels, err := h.service.ListReels(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list reels")
		return
	}
	if reels == nil {
		reels = []content.Reel{}
	}

	httperrors.Write(w, http.StatusOK, reels)
}

func (h *VideosHandler) CreateReel(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	input, ok := h.reelPayload(w, r)
	if !ok {
		return
	}

	reel, err := h.service.CreateReel(r.Context(), input)
	if err != nil {
		writeContentError(w, err, "reel")
		return
	}

	httperrors.Write(w, http.StatusCreated, reel)
}

func (h *VideosHandler) UpdateReel(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid reel id")
		return
	}

	input, ok := h.reelPayload(w, r)
	if !ok {
		return
	}

	reel, err := h.service.UpdateReel(r.Context(), id, input)
	if err != nil {
		writeContentError(w, err, "reel")
		return
	}

	httperrors.Write(w, http.StatusOK, reel)
}

func (h *VideosHandler) DeleteReel(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid reel id")
		return
	}

	if err := h.service.DeleteReel(r.Context(), id); err != nil {
		writeContentError(w, err, "reel")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "reel deleted"})
}

func (h *VideosHandler) ListTeam(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	videos, err := h.service.ListTeam(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list team videos")
		return
	}
	if videos == nil {
		videos = []content.TeamVideo{}
	}

	httperrors.Write(w, http.StatusOK, videos)
}

func (h *VideosHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	var req dto.TeamVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	video, err := h.service.CreateTeam(r.Context(), videosvc.TeamInput{
		Title:     req.Title,
		VideoURL:  req.VideoURL,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		writeContentError(w, err, "team video")
		return
	}

	httperrors.Write(w, http.StatusCreated, video)
}

func (h *VideosHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team video id")
		return
	}

	var req dto.TeamVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	video, err := h.service.UpdateTeam(r.Context(), id, videosvc.TeamInput{
		Title:     req.Title,
		VideoURL:  req.VideoURL,
		PosterURL: req.PosterURL,
	})
	if err != nil {
		writeContentError(w, err, "team video")
		return
	}

	httperrors.Write(w, http.StatusOK, video)
}

func (h *VideosHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VIDEOS_SERVICE_UNAVAILABLE", "videos service is unavailable")
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid team video id")
		return
	}

	if err := h.service.DeleteTeam(r.Context(), id); err != nil {
		writeContentError(w, err, "team video")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "team video deleted"})
}

func (h *VideosHandler) reelPayload(w http.ResponseWriter, r *http.Request) (videosvc.ReelInput, bool) {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemoryLimit)
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
			return videosvc.ReelInput{}, false
		}
		video, found, err := formFileAsDataURI(r, "video", h.maxBytes)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "failed to read uploaded file")
			return videosvc.ReelInput{}, false
		}
		if !found {
			video = r.FormValue("videoUrl")
		}
		return videosvc.ReelInput{VideoURL: video, PosterURL: r.FormValue("posterUrl")}, true
	}

	var req dto.ReelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return videosvc.ReelInput{}, false
	}
	return videosvc.ReelInput{VideoURL: req.VideoURL, PosterURL: req.PosterURL}, true
}

func corporateInput(req dto.CorporateVideoRequest) videosvc.CorporateInput {
	return videosvc.CorporateInput{
		Label:       req.Label,
		VideoURL:    req.VideoURL,
		PosterURL:   req.PosterURL,
		Title:       req.Title,
		Description: req.Description,
		Privacy:     req.Privacy,
		Status:      req.Status,
	}
}
