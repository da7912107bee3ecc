// Package thread owns conversation thread state: per-thread turn history,
// stored summaries, and the bounded-context view sent to the completion
// capability.
//
// The Service is a pure storage/view component. It never talks to an LLM and
// never decides when to summarize — that cadence belongs to the orchestration
// layer. All thread mutation funnels through the Service; nothing else
// touches thread state directly.
package thread

import (
	"sync"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/pkg/logging"
	"github.com/parleyhq/parley/pkg/types"
)

// threadState holds one thread's mutable state. Its mutex makes concurrent
// appends against the same thread ID safe; distinct threads never contend.
type threadState struct {
	mu        sync.Mutex
	turns     []*types.ChatTurn
	summaries []types.ChatSummary
}

// Service is the in-memory thread store, optionally backed by a persistent
// Store. The in-memory state is authoritative: persistence is best-effort and
// a failing backend never fails a thread operation.
type Service struct {
	mu      sync.RWMutex
	threads map[string]*threadState
	store   Store
	log     *logging.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStore attaches a persistence backend. Threads already persisted are
// loaded at construction; every mutation is written through afterwards.
func WithStore(store Store) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// NewService creates a thread service, empty unless a store with persisted
// threads is attached.
func NewService(opts ...ServiceOption) *Service {
	log, _ := logging.NewLogger("thread")
	s := &Service{threads: make(map[string]*threadState), log: log}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

// restore replays persisted threads into memory. A failing load starts the
// service empty rather than failing construction.
func (s *Service) restore() {
	if s.store == nil {
		return
	}
	records, err := s.store.LoadThreads()
	if err != nil {
		s.log.Warnf("thread restore failed, starting empty: %v", err)
		return
	}
	for _, rec := range records {
		s.threads[rec.ID] = &threadState{turns: rec.Turns, summaries: rec.Summaries}
	}
}

// persist writes one thread through to the store. Callers hold st.mu, so the
// copies are consistent with the mutation just applied.
func (s *Service) persist(id string, st *threadState) {
	if s.store == nil {
		return
	}

	turns := make([]*types.ChatTurn, len(st.turns))
	copy(turns, st.turns)
	summaries := make([]types.ChatSummary, len(st.summaries))
	copy(summaries, st.summaries)

	if err := s.store.SaveThread(ThreadRecord{ID: id, Turns: turns, Summaries: summaries}); err != nil {
		s.log.Warnf("thread %s: persist failed: %v", id, err)
	}
}

// CreateThread generates a fresh opaque thread ID with empty history and
// summaries. It never fails.
func (s *Service) CreateThread() string {
	id := uuid.New().String()

	s.mu.Lock()
	st := &threadState{}
	s.threads[id] = st
	s.mu.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()
	s.persist(id, st)
	return id
}

// ThreadExists reports whether id names a live thread.
func (s *Service) ThreadExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.threads[id]
	return ok
}

// lookup returns the state for id or a ThreadNotFound error.
func (s *Service) lookup(id string) (*threadState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.threads[id]
	if !ok {
		return nil, types.NewThreadNotFound(id)
	}
	return st, nil
}

// AppendTurn appends turn to the thread's ordered history and returns a
// snapshot of the updated history. Fails with ThreadNotFound for unknown IDs.
func (s *Service) AppendTurn(threadID string, turn *types.ChatTurn) ([]*types.ChatTurn, error) {
	st, err := s.lookup(threadID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.turns = append(st.turns, turn)
	s.persist(threadID, st)

	snapshot := make([]*types.ChatTurn, len(st.turns))
	copy(snapshot, st.turns)
	return snapshot, nil
}

// DeleteThread removes the thread along with its turns and summaries.
// Fails with ThreadNotFound for unknown IDs, consistent with the other
// mutators.
func (s *Service) DeleteThread(threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[threadID]; !ok {
		return types.NewThreadNotFound(threadID)
	}
	delete(s.threads, threadID)

	if s.store != nil {
		if err := s.store.DeleteThread(threadID); err != nil {
			s.log.Warnf("thread %s: persisted delete failed: %v", threadID, err)
		}
	}
	return nil
}

// StoreSummary appends summary to the thread's summary list in arrival
// order. The service does not check range ordering or overlap — the caller
// computing the ranges is responsible for that invariant.
func (s *Service) StoreSummary(threadID string, summary types.ChatSummary) error {
	st, err := s.lookup(threadID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.summaries = append(st.summaries, summary)
	s.persist(threadID, st)
	return nil
}

// Summaries returns the thread's stored summaries in arrival order. A live
// thread with no summaries yields an empty list, not an error.
func (s *Service) Summaries(threadID string) ([]types.ChatSummary, error) {
	st, err := s.lookup(threadID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]types.ChatSummary, len(st.summaries))
	copy(out, st.summaries)
	return out, nil
}

// History returns a snapshot of the thread's full turn list in append order.
func (s *Service) History(threadID string) ([]*types.ChatTurn, error) {
	st, err := s.lookup(threadID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]*types.ChatTurn, len(st.turns))
	copy(out, st.turns)
	return out, nil
}
