package generation

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
)

type fakeVendor struct {
	mu sync.Mutex

	taskID    string
	createErr error
	// runs inside CreateTask before it answers
	onCreate func()

	// statuses are returned in order, the last one repeats
	statuses  []*domain.VendorTask
	statusErr error

	createCalls int
	statusCalls int
}

func (v *fakeVendor) CreateTask(ctx context.Context, prompt string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.createCalls++
	if v.onCreate != nil {
		v.onCreate()
	}
	if v.createErr != nil {
		return "", v.createErr
	}
	return v.taskID, nil
}

func (v *fakeVendor) GetTaskStatus(ctx context.Context, taskID string) (*domain.VendorTask, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statusCalls++
	if v.statusErr != nil {
		return nil, v.statusErr
	}
	if len(v.statuses) == 0 {
		return &domain.VendorTask{TaskID: taskID, Status: domain.VendorRunning}, nil
	}
	next := v.statuses[0]
	if len(v.statuses) > 1 {
		v.statuses = v.statuses[1:]
	}
	return next, nil
}

func (v *fakeVendor) calls() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.createCalls, v.statusCalls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.GenerationEvent
}

func (p *fakePublisher) PublishPayment(domain.PaymentEvent) error { return nil }

func (p *fakePublisher) PublishGeneration(event domain.GenerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) stages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Stage)
	}
	return out
}

// conflictingStore fails the first n history status updates with a store
// conflict, inside or outside a transaction.
type conflictingStore struct {
	domain.Store
	state *conflictState
}

type conflictState struct {
	mu        sync.Mutex
	remaining int
	hits      int
}

func (c *conflictState) take() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == 0 {
		return false
	}
	c.remaining--
	c.hits++
	return true
}

func newConflictingStore(inner domain.Store, n int) *conflictingStore {
	return &conflictingStore{Store: inner, state: &conflictState{remaining: n}}
}

func (s *conflictingStore) History() domain.HistoryRepository {
	return &conflictingHistory{HistoryRepository: s.Store.History(), state: s.state}
}

func (s *conflictingStore) InTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.Store.InTx(ctx, func(tx domain.Store) error {
		return fn(&conflictingStore{Store: tx, state: s.state})
	})
}

type conflictingHistory struct {
	domain.HistoryRepository
	state *conflictState
}

func (h *conflictingHistory) UpdateStatus(ctx context.Context, id string, from []domain.GenerationStatus, update domain.HistoryUpdate) (bool, error) {
	if h.state.take() {
		return false, domain.ErrStoreConflict
	}
	return h.HistoryRepository.UpdateStatus(ctx, id, from, update)
}
