package mocks

import (
	"context"
	"sync"

	"github.com/careerforge/pitch-api/internal/dispatch"
)

// MockProvider implements dispatch.Provider for testing.
type MockProvider struct {
	mu sync.Mutex

	// SubmitFn customizes the submit behavior; nil means accept.
	SubmitFn func(ctx context.Context, req dispatch.SubmitRequest) error

	// Err, when set and SubmitFn is nil, is returned from every Submit.
	Err error

	// Call tracking for verification
	SubmitCalls int
	Requests    []dispatch.SubmitRequest
}

var _ dispatch.Provider = (*MockProvider)(nil)

// Submit implements dispatch.Provider.
func (p *MockProvider) Submit(ctx context.Context, req dispatch.SubmitRequest) error {
	p.mu.Lock()
	p.SubmitCalls++
	p.Requests = append(p.Requests, req)
	fn := p.SubmitFn
	err := p.Err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return err
}

// Calls returns how many times Submit was invoked.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.SubmitCalls
}
