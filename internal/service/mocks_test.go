package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/pagination"
	"github.com/cloo-solutions/vigilai/internal/storage"
)

type mockBriefingRepo struct {
	mock.Mock
}

func (m *mockBriefingRepo) Create(ctx context.Context, b *domain.Briefing) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBriefingRepo) GetByID(ctx context.Context, id string) (*domain.Briefing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Briefing), args.Error(1)
}

func (m *mockBriefingRepo) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*BriefingPageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BriefingPageResult), args.Error(1)
}

func (m *mockBriefingRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBriefingRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockKnowledgeRepo struct {
	mock.Mock
}

func (m *mockKnowledgeRepo) Upsert(ctx context.Context, key domain.KnowledgeKey, severity domain.Severity, entityTags []domain.Entity, observedAt time.Time) error {
	args := m.Called(ctx, key, severity, entityTags, observedAt)
	return args.Error(0)
}

func (m *mockKnowledgeRepo) ListRanked(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeEntry), args.Error(1)
}

func (m *mockKnowledgeRepo) ListUnembedded(ctx context.Context, limit int) ([]*domain.KnowledgeEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeEntry), args.Error(1)
}

func (m *mockKnowledgeRepo) UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

func (m *mockKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*domain.KnowledgeEntry, error) {
	args := m.Called(ctx, embedding, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeEntry), args.Error(1)
}

type mockAttentionRepo struct {
	mock.Mock
}

func (m *mockAttentionRepo) CreateBatch(ctx context.Context, logs []*domain.AttentionLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *mockAttentionRepo) ListMissed(ctx context.Context, briefingID string) ([]*domain.AttentionLog, error) {
	args := m.Called(ctx, briefingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AttentionLog), args.Error(1)
}

// stubTxRunner runs the callback against the given mocks without a real
// transaction.
type stubTxRunner struct {
	briefings BriefingRepositoryInterface
	attention AttentionRepositoryInterface
}

func (r *stubTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	return fn(r)
}

func (r *stubTxRunner) Briefings() BriefingRepositoryInterface { return r.briefings }

func (r *stubTxRunner) Attention() AttentionRepositoryInterface { return r.attention }

type stubDelegate struct {
	structureFn func(ctx context.Context, rawText string) (*domain.StructuredBriefing, error)
	extractFn   func(ctx context.Context, rawText string) (*domain.EntitySet, error)
}

func (d *stubDelegate) Structure(ctx context.Context, rawText string) (*domain.StructuredBriefing, error) {
	return d.structureFn(ctx, rawText)
}

func (d *stubDelegate) ExtractEntities(ctx context.Context, rawText string) (*domain.EntitySet, error) {
	return d.extractFn(ctx, rawText)
}

type stubUUIDGenerator struct {
	id string
}

func (g *stubUUIDGenerator) NewString() string { return g.id }

type stubEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return e.embedFn(ctx, text)
}

type stubSynthesizer struct {
	synthesizeFn func(ctx context.Context, text string) ([]byte, error)
	voiceID      string
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return s.synthesizeFn(ctx, text)
}

func (s *stubSynthesizer) VoiceID() string { return s.voiceID }

type stubAudioStore struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    int
	gets    int
}

func newStubAudioStore() *stubAudioStore {
	return &stubAudioStore{objects: make(map[string][]byte)}
}

func (s *stubAudioStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	body, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return body, nil
}

func (s *stubAudioStore) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = body
	return nil
}
