package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

type MockSpeechService struct {
	mock.Mock
}

func (m *MockSpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestSpeechHandler_Synthesize(t *testing.T) {
	mockSvc := new(MockSpeechService)
	handler := NewSpeechHandler(mockSvc)

	mockSvc.On("Synthesize", mock.Anything, "Oil leak near Pump A-1").Return([]byte("mp3 bytes"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader([]byte(`{"text":"Oil leak near Pump A-1"}`)))
	rec := httptest.NewRecorder()

	handler.Synthesize(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "mp3 bytes", rec.Body.String())
}

func TestSpeechHandler_Synthesize_NotConfigured(t *testing.T) {
	mockSvc := new(MockSpeechService)
	handler := NewSpeechHandler(mockSvc)

	mockSvc.On("Synthesize", mock.Anything, "anything").Return(nil, domain.ErrSpeechNotConfigured)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader([]byte(`{"text":"anything"}`)))
	rec := httptest.NewRecorder()

	handler.Synthesize(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSpeechHandler_Synthesize_UpstreamError(t *testing.T) {
	mockSvc := new(MockSpeechService)
	handler := NewSpeechHandler(mockSvc)

	upstreamErr := domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "speech synthesis failed", assert.AnError)
	mockSvc.On("Synthesize", mock.Anything, "anything").Return(nil, upstreamErr)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader([]byte(`{"text":"anything"}`)))
	rec := httptest.NewRecorder()

	handler.Synthesize(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSpeechHandler_Synthesize_EmptyText(t *testing.T) {
	mockSvc := new(MockSpeechService)
	handler := NewSpeechHandler(mockSvc)

	mockSvc.On("Synthesize", mock.Anything, "").Return(nil, domain.ErrEmptySpeechText)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.Synthesize(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpeechHandler_Synthesize_InvalidBody(t *testing.T) {
	handler := NewSpeechHandler(new(MockSpeechService))

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewReader([]byte(`{bad`)))
	rec := httptest.NewRecorder()

	handler.Synthesize(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
