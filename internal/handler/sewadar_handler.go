package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sewadar-registry/internal/model"
	"sewadar-registry/internal/service"
	"sewadar-registry/pkg/apierror"
)

type SewadarHandler struct {
	service *service.SewadarService
}

func NewSewadarHandler(service *service.SewadarService) *SewadarHandler {
	return &SewadarHandler{service: service}
}

func (h *SewadarHandler) List(w http.ResponseWriter, r *http.Request) {
	query := model.SewadarQuery{
		Department: strings.TrimSpace(r.URL.Query().Get("department")),
		Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 50),
	}

	sewadars, meta, err := h.service.List(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sewadars, &meta)
}

func (h *SewadarHandler) Get(w http.ResponseWriter, r *http.Request) {
	sewadar, err := h.service.Get(r.Context(), chi.URLParam(r, "sewadar_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sewadar, nil)
}

func (h *SewadarHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SewadarRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	sewadar, err := h.service.Create(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, sewadar, nil)
}

func (h *SewadarHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SewadarRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	sewadar, err := h.service.Update(r.Context(), actorFromRequest(r), chi.URLParam(r, "sewadar_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, sewadar, nil)
}

func (h *SewadarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actorFromRequest(r), chi.URLParam(r, "sewadar_id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
