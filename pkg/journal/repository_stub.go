package journal

import (
	"context"
	"sync"
	"time"
)

// RepositoryStub keeps runs and operations in memory for tests.
type RepositoryStub struct {
	mu         sync.Mutex
	runs       map[string]*Run
	operations []Operation
	nextOpID   int64
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{runs: make(map[string]*Run), nextOpID: 1}
}

func (r *RepositoryStub) StartRun(_ context.Context, id string, period string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[id] = &Run{ID: id, Period: period, StartedAt: time.Now().UTC()}
	return nil
}

func (r *RepositoryStub) RecordOperation(_ context.Context, op Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.ID = r.nextOpID
	r.nextOpID++
	op.CreatedAt = time.Now().UTC()
	r.operations = append(r.operations, op)
	return nil
}

func (r *RepositoryStub) FinishRun(_ context.Context, run Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.runs[run.ID]; ok {
		now := time.Now().UTC()
		stored.FinishedAt = &now
		stored.Added = run.Added
		stored.Deleted = run.Deleted
		stored.Skipped = run.Skipped
		stored.Unresolved = run.Unresolved
		stored.Failed = run.Failed
	}
	return nil
}

func (r *RepositoryStub) ListRuns(_ context.Context, limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var runs []Run
	for _, run := range r.runs {
		runs = append(runs, *run)
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *RepositoryStub) ListOperations(_ context.Context, runID string) ([]Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var operations []Operation
	for _, op := range r.operations {
		if op.RunID == runID {
			operations = append(operations, op)
		}
	}
	return operations, nil
}

// Operations returns every recorded operation in order, across runs.
func (r *RepositoryStub) Operations() []Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	operations := make([]Operation, len(r.operations))
	copy(operations, r.operations)
	return operations
}
