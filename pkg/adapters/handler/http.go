package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookmarksapi/pkg/ports"
)

type BookmarkHandler struct {
	service ports.BookmarkService
}

func NewBookmarkHandler(service ports.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// bookmarkRequest is shared by create and edit.
type bookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	bookmark, err := h.service.Create(r.Context(), userID, req.URL, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, bookmark)
}

func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	bookmarks, meta, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data": bookmarks,
		"meta": meta,
	})
}

func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	bookmark, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bookmark)
}

func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	bookmark, err := h.service.Update(r.Context(), userID, id, req.URL, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bookmark)
}

func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BookmarkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": stats})
}

// Redirect resolves a short code and sends the visitor to the stored URL.
// Public: no credential required.
func (h *BookmarkHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("short_url")
	if code == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "short url missing"})
		return
	}

	targetURL, err := h.service.Resolve(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}

	http.Redirect(w, r, targetURL, http.StatusFound)
}
