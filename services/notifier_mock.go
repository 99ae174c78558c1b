package services

import "sync"

// MockNotifier records enqueued notifications for testing
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

// NewMockNotifier creates an empty mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetAsMockForTesting sets this mock as the global notifier for testing
func (m *MockNotifier) SetAsMockForTesting() {
	SetNotifier(m)
}

// Enqueue records the notification
func (m *MockNotifier) Enqueue(n Notification) {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
}

// Notifications returns a copy of everything enqueued so far
func (m *MockNotifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.sent...)
}

// Kinds returns the kinds of the enqueued notifications in order
func (m *MockNotifier) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, 0, len(m.sent))
	for _, n := range m.sent {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

// Clear forgets all recorded notifications
func (m *MockNotifier) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
