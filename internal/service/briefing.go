package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/nlp"
	"github.com/cloo-solutions/vigilai/internal/pagination"
	"github.com/cloo-solutions/vigilai/internal/telemetry"
)

// BriefingRepositoryInterface defines the repository interface for briefing persistence
type BriefingRepositoryInterface interface {
	Create(ctx context.Context, b *domain.Briefing) error
	GetByID(ctx context.Context, id string) (*domain.Briefing, error)
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*BriefingPageResult, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// KnowledgeRepositoryInterface defines the repository interface for the knowledge store
type KnowledgeRepositoryInterface interface {
	Upsert(ctx context.Context, key domain.KnowledgeKey, severity domain.Severity, entityTags []domain.Entity, observedAt time.Time) error
	ListRanked(ctx context.Context) ([]*domain.KnowledgeEntry, error)
	ListUnembedded(ctx context.Context, limit int) ([]*domain.KnowledgeEntry, error)
	UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*domain.KnowledgeEntry, error)
}

// AttentionRepositoryInterface defines the repository interface for attention logs
type AttentionRepositoryInterface interface {
	CreateBatch(ctx context.Context, logs []*domain.AttentionLog) error
	ListMissed(ctx context.Context, briefingID string) ([]*domain.AttentionLog, error)
}

// TxRepositories exposes repositories bound to one transaction
type TxRepositories interface {
	Briefings() BriefingRepositoryInterface
	Attention() AttentionRepositoryInterface
}

// TxRunnerInterface runs a function inside a database transaction
type TxRunnerInterface interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

// Delegate is the external AI structuring/extraction collaborator. Both
// methods may fail; the briefing pipeline then takes the deterministic
// fallback path.
type Delegate interface {
	Structure(ctx context.Context, rawText string) (*domain.StructuredBriefing, error)
	ExtractEntities(ctx context.Context, rawText string) (*domain.EntitySet, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

type BriefingPageResult struct {
	Items      []*domain.Briefing
	NextCursor string
	HasMore    bool
}

// BriefingService runs the briefing pipeline: structure, extract, tag,
// persist, aggregate.
type BriefingService struct {
	briefingRepo  BriefingRepositoryInterface
	knowledgeRepo KnowledgeRepositoryInterface
	delegate      Delegate
	uuidGen       UUIDGenerator
}

// NewBriefingService creates a new BriefingService. delegate may be nil,
// in which case every submission takes the fallback path.
func NewBriefingService(
	briefingRepo BriefingRepositoryInterface,
	knowledgeRepo KnowledgeRepositoryInterface,
	delegate Delegate,
) *BriefingService {
	return &BriefingService{
		briefingRepo:  briefingRepo,
		knowledgeRepo: knowledgeRepo,
		delegate:      delegate,
		uuidGen:       &DefaultUUIDGenerator{},
	}
}

// NewBriefingServiceWithUUIDGen creates a BriefingService with a custom UUID generator (for testing)
func NewBriefingServiceWithUUIDGen(
	briefingRepo BriefingRepositoryInterface,
	knowledgeRepo KnowledgeRepositoryInterface,
	delegate Delegate,
	uuidGen UUIDGenerator,
) *BriefingService {
	svc := NewBriefingService(briefingRepo, knowledgeRepo, delegate)
	svc.uuidGen = uuidGen
	return svc
}

// CreateBriefingInput represents one raw shift-handoff submission
type CreateBriefingInput struct {
	RawText    string
	ShiftLabel string
	Author     string
}

// Create runs the full pipeline for one submission and persists the
// result. Knowledge aggregation failures are captured per item and never
// abort the briefing or sibling items.
func (s *BriefingService) Create(ctx context.Context, input CreateBriefingInput) (*domain.Briefing, error) {
	ctx, span := telemetry.StartSpan(ctx, "BriefingService.Create", telemetry.SpanAttributes{
		Operation: "create",
	})
	defer span.End()

	if input.RawText == "" {
		return nil, domain.ErrEmptyRawText
	}

	now := time.Now().UTC()

	structured := s.structureText(ctx, input.RawText)
	entities := s.extractEntities(ctx, input.RawText)
	structured.Entities = entities
	nlp.TagItems(structured.Items, entities)

	briefing := &domain.Briefing{
		ID:         s.uuidGen.NewString(),
		RawText:    input.RawText,
		Structured: structured,
		CreatedAt:  now,
		ShiftLabel: input.ShiftLabel,
		Author:     input.Author,
	}

	if err := domain.ValidateBriefing(briefing); err != nil {
		return nil, err
	}

	if err := s.briefingRepo.Create(ctx, briefing); err != nil {
		return nil, err
	}

	for i := range structured.Items {
		item := &structured.Items[i]
		severity := item.Severity
		if severity == "" {
			severity = domain.SeverityInfo
		}

		err := s.knowledgeRepo.Upsert(ctx, domain.KnowledgeKeyFor(item), severity, item.Entities, now)
		if err != nil {
			// Fatal for this item's aggregation only; siblings still run.
			log.Printf("knowledge upsert failed for item %d of briefing %s: %v", item.ID, briefing.ID, err)
			telemetry.CaptureError(ctx, err)
		}
	}

	return briefing, nil
}

// GetByID retrieves a briefing by ID
func (s *BriefingService) GetByID(ctx context.Context, id string) (*domain.Briefing, error) {
	ctx, span := telemetry.StartSpan(ctx, "BriefingService.GetByID", telemetry.SpanAttributes{
		BriefingID: id,
		Operation:  "get",
	})
	defer span.End()

	return s.briefingRepo.GetByID(ctx, id)
}

type ListBriefingsInput struct {
	Cursor string
	Limit  int
}

type ListBriefingsOutput struct {
	Items   []*domain.Briefing
	Cursor  string
	HasMore bool
}

// List retrieves briefings newest-first with cursor pagination
func (s *BriefingService) List(ctx context.Context, input ListBriefingsInput) (*ListBriefingsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "BriefingService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.briefingRepo.ListWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListBriefingsOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}

// structureText attempts the AI delegate and falls back to the
// deterministic structurer on any failure. The fallback never fails.
func (s *BriefingService) structureText(ctx context.Context, rawText string) *domain.StructuredBriefing {
	if s.delegate != nil {
		structured, err := s.delegate.Structure(ctx, rawText)
		if err == nil {
			return structured
		}
		log.Printf("ai structuring failed (%v), using fallback", err)
	}
	return nlp.StructureBriefing(rawText)
}

func (s *BriefingService) extractEntities(ctx context.Context, rawText string) *domain.EntitySet {
	if s.delegate != nil {
		entities, err := s.delegate.ExtractEntities(ctx, rawText)
		if err == nil {
			return entities
		}
		log.Printf("ai entity extraction failed (%v), using fallback", err)
	}
	return nlp.ExtractEntities(rawText)
}
