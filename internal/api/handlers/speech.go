package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/vigilai/internal/api"
)

type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type SpeechHandler struct {
	svc SpeechService
}

func NewSpeechHandler(svc SpeechService) *SpeechHandler {
	return &SpeechHandler{svc: svc}
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

// Synthesize returns MP3 audio for the given text. Errors keep the JSON
// envelope; only the success path switches to audio/mpeg.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	audio, err := h.svc.Synthesize(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
