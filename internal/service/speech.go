package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/storage"
	"github.com/cloo-solutions/vigilai/internal/telemetry"
)

// Synthesizer converts text to spoken audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	VoiceID() string
}

// AudioStore caches synthesized audio objects
type AudioStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// SpeechService synthesizes briefing audio through the TTS provider,
// with an optional object-store cache in front of it.
type SpeechService struct {
	synthesizer Synthesizer
	store       AudioStore
}

// NewSpeechService creates a new SpeechService. Either collaborator may
// be nil: a nil synthesizer makes synthesis unavailable, a nil store
// disables caching.
func NewSpeechService(synthesizer Synthesizer, store AudioStore) *SpeechService {
	return &SpeechService{
		synthesizer: synthesizer,
		store:       store,
	}
}

// Synthesize returns MP3 audio for the given text. Results are cached by
// voice and text hash so repeated briefing playback does not re-bill the
// TTS provider.
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "SpeechService.Synthesize", telemetry.SpanAttributes{
		Operation: "synthesize",
	})
	defer span.End()

	if s.synthesizer == nil {
		return nil, domain.ErrSpeechNotConfigured
	}
	if text == "" {
		return nil, domain.ErrEmptySpeechText
	}

	cacheKey := s.cacheKey(text)
	if s.store != nil {
		audio, err := s.store.GetObject(ctx, cacheKey)
		if err == nil {
			return audio, nil
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("audio cache read failed for %s: %v", cacheKey, err)
		}
	}

	audio, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "speech synthesis failed", err)
	}

	if s.store != nil {
		// Cache write failures only cost the next call a re-synthesis.
		if err := s.store.PutObject(ctx, cacheKey, audio, "audio/mpeg"); err != nil {
			log.Printf("audio cache write failed for %s: %v", cacheKey, err)
		}
	}

	return audio, nil
}

func (s *SpeechService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("tts/%s/%x.mp3", s.synthesizer.VoiceID(), sum)
}
