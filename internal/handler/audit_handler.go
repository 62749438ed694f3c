package handler

import (
	"net/http"
	"strings"

	"sewadar-registry/internal/model"
	"sewadar-registry/internal/service"
)

// AuditHandler is the administrator-only read surface over the audit trail.
type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := model.AuditQuery{
		Action:     strings.TrimSpace(r.URL.Query().Get("action")),
		ActorID:    strings.TrimSpace(r.URL.Query().Get("actor_id")),
		EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
		EntityID:   strings.TrimSpace(r.URL.Query().Get("entity_id")),
		From:       strings.TrimSpace(r.URL.Query().Get("from")),
		To:         strings.TrimSpace(r.URL.Query().Get("to")),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 50),
	}

	records, meta, err := h.service.Query(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, records, &meta)
}
