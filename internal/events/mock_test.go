package events_test

import (
	"context"
	"sync"

	"github.com/tablero-dev/tablero/internal/events"
)

// MockEventPublisher is a mock implementation of events.EventPublisher for testing.
// It records all published events for verification in tests.
type MockEventPublisher struct {
	mu sync.Mutex

	// Recorded events
	SentEvents []events.Event

	// Tracking
	CloseCalled     bool
	ConnectCalled   bool
	SubscribeCalled bool
	ListenCalled    bool

	// Subscription tracking
	SubscriptionHistory []int // Track all Subscribe(boardID) calls in order
	CurrentSubscription int   // Track the most recent subscription
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		SentEvents:          []events.Event{},
		SubscriptionHistory: []int{},
	}
}

// Connect is a no-op for the mock.
func (m *MockEventPublisher) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalled = true
	return nil
}

// SendEvent records the event for later verification.
func (m *MockEventPublisher) SendEvent(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

// Listen is a no-op for the mock (returns closed channel).
func (m *MockEventPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListenCalled = true
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

// Subscribe records the subscription change.
func (m *MockEventPublisher) Subscribe(boardID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscribeCalled = true
	m.SubscriptionHistory = append(m.SubscriptionHistory, boardID)
	m.CurrentSubscription = boardID
	return nil
}

// Close marks the mock as closed.
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// EventCount returns the number of recorded events.
func (m *MockEventPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEvents)
}

// Compile-time verification that the mock implements the interface
var _ events.EventPublisher = (*MockEventPublisher)(nil)
