package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/types"
)

// Event describes one committed state transition, delivered to subscribers.
type Event struct {
	Action string
	State  State
	Notice *types.Notice
}

// Store holds the live document state and serializes reductions over it.
// All reads return snapshots; subscribers receive one Event per dispatch
// that was not refused with an error.
type Store struct {
	mu      sync.RWMutex
	state   State
	history []State
	maxHist int

	maxNodes int
	maxEdges int

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int

	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHistory keeps the last max committed states for undo-style inspection.
func WithHistory(max int) Option {
	return func(s *Store) {
		s.maxHist = max
		s.history = make([]State, 0, max)
	}
}

// WithLimits caps the document size. An action whose result would exceed a
// cap is refused by policy, leaving the state unchanged. Zero means no cap.
func WithLimits(maxNodes, maxEdges int) Option {
	return func(s *Store) {
		s.maxNodes = maxNodes
		s.maxEdges = maxEdges
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store seeded with the given document.
func New(doc flow.Document, opts ...Option) *Store {
	s := &Store{
		state:  State{Doc: doc.Clone()},
		subs:   make(map[int]chan Event),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Doc: s.state.Doc.Clone(), Version: s.state.Version, Ordering: s.state.Ordering}
}

// Version returns the current version without copying the document.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Version
}

// Dispatch reduces the action against the current state and commits the
// result. A policy refusal commits nothing and is returned as a notice;
// subscribers still hear about it so clients can surface the message.
func (s *Store) Dispatch(action Action) (State, *types.Notice, error) {
	s.mu.Lock()
	next, notice, err := Reduce(s.state, action)
	if err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Warn("action rejected",
			zap.String("action", Name(action)),
			zap.Error(err))
		return snap, nil, err
	}

	committed := next.Version != s.state.Version
	if committed {
		if refusal := s.limitRefusalLocked(&next.Doc); refusal != nil {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			s.logger.Info("action refused by policy",
				zap.String("action", Name(action)),
				zap.String("message", refusal.Message))
			s.publish(Event{Action: Name(action), State: snap, Notice: refusal})
			return snap, refusal, nil
		}
		if s.maxHist > 0 {
			if len(s.history) >= s.maxHist {
				s.history = s.history[1:]
			}
			s.history = append(s.history, s.state)
		}
		s.state = next
	}
	snap := State{Doc: s.state.Doc.Clone(), Version: s.state.Version, Ordering: s.state.Ordering}
	s.mu.Unlock()

	if notice != nil {
		s.logger.Info("action refused by policy",
			zap.String("action", Name(action)),
			zap.String("message", notice.Message))
	} else if committed {
		s.logger.Debug("action committed",
			zap.String("action", Name(action)),
			zap.Uint64("version", snap.Version))
	}

	s.publish(Event{Action: Name(action), State: snap, Notice: notice})
	return snap, notice, nil
}

// Subscribe registers a new event channel. The returned cancel function
// closes the channel and drops the subscription.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// History returns the committed states preceding the current one, oldest
// first.
func (s *Store) History() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]State, len(s.history))
	for i := range s.history {
		out[i] = State{Doc: s.history[i].Doc.Clone(), Version: s.history[i].Version, Ordering: s.history[i].Ordering}
	}
	return out
}

func (s *Store) limitRefusalLocked(doc *flow.Document) *types.Notice {
	if s.maxNodes > 0 && len(doc.Nodes) > s.maxNodes {
		return types.Reject("node limit reached for this flow")
	}
	if s.maxEdges > 0 && len(doc.Edges) > s.maxEdges {
		return types.Reject("edge limit reached for this flow")
	}
	return nil
}

func (s *Store) snapshotLocked() State {
	return State{Doc: s.state.Doc.Clone(), Version: s.state.Version, Ordering: s.state.Ordering}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Slow subscribers drop events rather than block dispatch.
		select {
		case ch <- ev:
		default:
		}
	}
}
