package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockKnowledgeEmbeddingRepository is a mock implementation of KnowledgeEmbeddingRepository
type MockKnowledgeEmbeddingRepository struct {
	mock.Mock
}

func (m *MockKnowledgeEmbeddingRepository) ListUnembedded(ctx context.Context, limit int) ([]*domain.KnowledgeEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeEntry), args.Error(1)
}

func (m *MockKnowledgeEmbeddingRepository) UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

// MockEmbeddingGenerator is a mock implementation of EmbeddingGenerator
type MockEmbeddingGenerator struct {
	mock.Mock
}

func (m *MockEmbeddingGenerator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestEmbeddingWorker_ProcessJobs_NothingPending tests when every entry is embedded
func TestEmbeddingWorker_ProcessJobs_NothingPending(t *testing.T) {
	mockRepo := new(MockKnowledgeEmbeddingRepository)
	mockGenerator := new(MockEmbeddingGenerator)

	mockRepo.On("ListUnembedded", mock.Anything, BatchSize).Return([]*domain.KnowledgeEntry{}, nil)

	worker := NewEmbeddingWorker(mockRepo, mockGenerator)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockGenerator.AssertNotCalled(t, "GenerateEmbedding", mock.Anything, mock.Anything)
}

// TestEmbeddingWorker_ProcessJobs_Success tests successful embedding backfill
func TestEmbeddingWorker_ProcessJobs_Success(t *testing.T) {
	mockRepo := new(MockKnowledgeEmbeddingRepository)
	mockGenerator := new(MockEmbeddingGenerator)

	entry := &domain.KnowledgeEntry{
		ID:          42,
		MachineID:   "Pump A-1",
		IssueType:   "safety",
		Description: "Oil leak near Pump A-1",
	}
	embedding := []float32{0.1, 0.2}

	mockRepo.On("ListUnembedded", mock.Anything, BatchSize).Return([]*domain.KnowledgeEntry{entry}, nil)
	mockGenerator.On("GenerateEmbedding", mock.Anything, "Pump A-1 safety: Oil leak near Pump A-1").Return(embedding, nil)
	mockRepo.On("UpdateEmbedding", mock.Anything, int64(42), embedding).Return(nil)

	worker := NewEmbeddingWorker(mockRepo, mockGenerator)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockGenerator.AssertExpectations(t)
}

// TestEmbeddingWorker_ProcessJobs_GeneratorFailureSkipsEntry tests that a
// failed embedding leaves the entry for the next poll and continues
func TestEmbeddingWorker_ProcessJobs_GeneratorFailureSkipsEntry(t *testing.T) {
	mockRepo := new(MockKnowledgeEmbeddingRepository)
	mockGenerator := new(MockEmbeddingGenerator)

	entries := []*domain.KnowledgeEntry{
		{ID: 1, MachineID: "Machine 1", IssueType: "general", Description: "first"},
		{ID: 2, MachineID: "Machine 2", IssueType: "general", Description: "second"},
	}
	embedding := []float32{0.5}

	mockRepo.On("ListUnembedded", mock.Anything, BatchSize).Return(entries, nil)
	mockGenerator.On("GenerateEmbedding", mock.Anything, "Machine 1 general: first").Return(nil, errors.New("rate limited"))
	mockGenerator.On("GenerateEmbedding", mock.Anything, "Machine 2 general: second").Return(embedding, nil)
	mockRepo.On("UpdateEmbedding", mock.Anything, int64(2), embedding).Return(nil)

	worker := NewEmbeddingWorker(mockRepo, mockGenerator)
	err := worker.ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "UpdateEmbedding", mock.Anything, int64(1), mock.Anything)
}

// TestEmbeddingWorker_ProcessJobs_RepositoryError tests repository error handling
func TestEmbeddingWorker_ProcessJobs_RepositoryError(t *testing.T) {
	mockRepo := new(MockKnowledgeEmbeddingRepository)
	mockGenerator := new(MockEmbeddingGenerator)

	mockRepo.On("ListUnembedded", mock.Anything, BatchSize).Return(nil, errors.New("database error"))

	worker := NewEmbeddingWorker(mockRepo, mockGenerator)
	err := worker.ProcessJobs(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch unembedded entries")
	mockRepo.AssertExpectations(t)
}
