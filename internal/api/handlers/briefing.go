package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/vigilai/internal/api"
	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/service"
)

type BriefingService interface {
	Create(ctx context.Context, input service.CreateBriefingInput) (*domain.Briefing, error)
	GetByID(ctx context.Context, id string) (*domain.Briefing, error)
	List(ctx context.Context, input service.ListBriefingsInput) (*service.ListBriefingsOutput, error)
}

type AttentionService interface {
	LogBatch(ctx context.Context, briefingID string, samples []service.AttentionSample) (int, error)
	ListMissed(ctx context.Context, briefingID string) ([]*domain.AttentionLog, error)
}

type BriefingHandler struct {
	svc          BriefingService
	attentionSvc AttentionService
}

func NewBriefingHandler(svc BriefingService, attentionSvc AttentionService) *BriefingHandler {
	return &BriefingHandler{svc: svc, attentionSvc: attentionSvc}
}

type CreateBriefingRequest struct {
	RawText    string `json:"raw_text"`
	ShiftLabel string `json:"shift_label"`
	Author     string `json:"author"`
}

type BriefingResponse struct {
	ID         string                     `json:"id"`
	RawText    string                     `json:"raw_text"`
	Structured *domain.StructuredBriefing `json:"structured"`
	CreatedAt  string                     `json:"created_at"`
	ShiftLabel string                     `json:"shift_label,omitempty"`
	Author     string                     `json:"author,omitempty"`
}

func briefingToResponse(b *domain.Briefing) *BriefingResponse {
	return &BriefingResponse{
		ID:         b.ID,
		RawText:    b.RawText,
		Structured: b.Structured,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		ShiftLabel: b.ShiftLabel,
		Author:     b.Author,
	}
}

func (h *BriefingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBriefingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RawText == "" {
		api.Error(w, http.StatusBadRequest, "raw_text is required")
		return
	}

	briefing, err := h.svc.Create(r.Context(), service.CreateBriefingInput{
		RawText:    req.RawText,
		ShiftLabel: req.ShiftLabel,
		Author:     req.Author,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, briefingToResponse(briefing))
}

func (h *BriefingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	briefing, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, briefingToResponse(briefing))
}

type ListBriefingsResponse struct {
	Briefings []*BriefingResponse `json:"briefings"`
	Cursor    string              `json:"cursor,omitempty"`
	HasMore   bool                `json:"has_more"`
}

func (h *BriefingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.svc.List(r.Context(), service.ListBriefingsInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	briefings := make([]*BriefingResponse, 0, len(out.Items))
	for _, b := range out.Items {
		briefings = append(briefings, briefingToResponse(b))
	}

	api.Success(w, http.StatusOK, ListBriefingsResponse{
		Briefings: briefings,
		Cursor:    out.Cursor,
		HasMore:   out.HasMore,
	})
}

type LogAttentionRequest struct {
	Samples []service.AttentionSample `json:"samples"`
}

type LogAttentionResponse struct {
	Logged int `json:"logged"`
	Missed int `json:"missed"`
}

func (h *BriefingHandler) LogAttention(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req LogAttentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	missed, err := h.attentionSvc.LogBatch(r.Context(), id, req.Samples)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, LogAttentionResponse{
		Logged: len(req.Samples),
		Missed: missed,
	})
}

type AttentionLogResponse struct {
	ItemIndex     int     `json:"item_index"`
	AvgEngagement float64 `json:"avg_engagement"`
	AvgFocus      float64 `json:"avg_focus"`
	TimeSpentMS   int64   `json:"time_spent_ms"`
	FlaggedMissed bool    `json:"flagged_missed"`
	LoggedAt      string  `json:"logged_at"`
}

func (h *BriefingHandler) ListMissed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	logs, err := h.attentionSvc.ListMissed(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	missed := make([]*AttentionLogResponse, 0, len(logs))
	for _, l := range logs {
		missed = append(missed, &AttentionLogResponse{
			ItemIndex:     l.ItemIndex,
			AvgEngagement: l.AvgEngagement,
			AvgFocus:      l.AvgFocus,
			TimeSpentMS:   l.TimeSpentMS,
			FlaggedMissed: l.FlaggedMissed,
			LoggedAt:      l.LoggedAt.Format(time.RFC3339),
		})
	}

	api.Success(w, http.StatusOK, map[string]interface{}{"missed_items": missed})
}
