package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cloo-solutions/vigilai/internal/api"
	"github.com/cloo-solutions/vigilai/internal/domain"
)

type KnowledgeService interface {
	Graph(ctx context.Context) ([]*domain.KnowledgeEntry, error)
	Similar(ctx context.Context, query string, limit int) ([]*domain.KnowledgeEntry, error)
}

type KnowledgeHandler struct {
	svc KnowledgeService
}

func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type KnowledgeEntryResponse struct {
	ID              int64           `json:"id"`
	MachineID       string          `json:"machine_id"`
	IssueType       string          `json:"issue_type"`
	Description     string          `json:"description"`
	Severity        string          `json:"severity"`
	FirstSeen       string          `json:"first_seen"`
	LastSeen        string          `json:"last_seen"`
	OccurrenceCount int             `json:"occurrence_count"`
	EntityTags      []domain.Entity `json:"entity_tags"`
}

func knowledgeEntryToResponse(e *domain.KnowledgeEntry) *KnowledgeEntryResponse {
	tags := e.EntityTags
	if tags == nil {
		tags = []domain.Entity{}
	}
	return &KnowledgeEntryResponse{
		ID:              e.ID,
		MachineID:       e.MachineID,
		IssueType:       e.IssueType,
		Description:     e.Description,
		Severity:        string(e.Severity),
		FirstSeen:       e.FirstSeen.Format(time.RFC3339),
		LastSeen:        e.LastSeen.Format(time.RFC3339),
		OccurrenceCount: e.OccurrenceCount,
		EntityTags:      tags,
	}
}

func knowledgeEntriesToResponse(entries []*domain.KnowledgeEntry) []*KnowledgeEntryResponse {
	out := make([]*KnowledgeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, knowledgeEntryToResponse(e))
	}
	return out
}

func (h *KnowledgeHandler) Graph(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Graph(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"entries": knowledgeEntriesToResponse(entries),
		"total":   len(entries),
	})
}

func (h *KnowledgeHandler) Similar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.svc.Similar(r.Context(), query, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]interface{}{
		"entries": knowledgeEntriesToResponse(entries),
	})
}
