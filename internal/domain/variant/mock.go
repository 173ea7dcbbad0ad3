package variant

import (
	"context"
	"sync"
	"time"

	appctx "varibulk/internal/core/context"
	"varibulk/internal/domain/catalogs/item"
)

// SinkEntry is one recorded error.
type SinkEntry struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Trace     string    `json:"trace"`
	RequestID string    `json:"requestId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemorySink records errors in memory. Used in tests.
type MemorySink struct {
	mu      sync.Mutex
	entries []SinkEntry
}

// LogError implements ErrorSink.
func (s *MemorySink) LogError(ctx context.Context, title, trace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SinkEntry{
		Title:     title,
		Trace:     trace,
		RequestID: appctx.GetRequestID(ctx),
		UserID:    appctx.GetUserID(ctx),
		CreatedAt: time.Now().UTC(),
	})
}

// RecentErrors implements ErrorLogReader.
func (s *MemorySink) RecentErrors(ctx context.Context, title string, limit int) ([]SinkEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []SinkEntry{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if title != "" && s.entries[i].Title != title {
			continue
		}
		out = append(out, s.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Entries returns a copy of the recorded errors.
func (s *MemorySink) Entries() []SinkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SinkEntry(nil), s.entries...)
}

// MockProvider delegates to Base unless a Func field is set.
type MockProvider struct {
	Base       Provider
	FindFunc   func(ctx context.Context, tc *TemplateContext, b Binding) (string, error)
	CreateFunc func(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error)
}

// FindVariant implements Provider.
func (m *MockProvider) FindVariant(ctx context.Context, tc *TemplateContext, b Binding) (string, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tc, b)
	}
	return m.Base.FindVariant(ctx, tc, b)
}

// CreateVariant implements Provider.
func (m *MockProvider) CreateVariant(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tc, b)
	}
	return m.Base.CreateVariant(ctx, tc, b)
}

var (
	_ ErrorSink      = (*MemorySink)(nil)
	_ ErrorLogReader = (*MemorySink)(nil)
	_ Provider       = (*MockProvider)(nil)
)
