package interpreter

import (
	"context"
	"sync"
)

// MockClient is a mock interpretation client for testing
type MockClient struct {
	mu         sync.Mutex
	candidates []Candidate
	imageErr   error
	textErr    error
	baseURL    string
	imageCalls int
	textCalls  int
	lastPrompt string
	lastImage  string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithCandidates sets the candidates returned by both calls
func WithCandidates(candidates []Candidate) MockOption {
	return func(m *MockClient) {
		m.candidates = candidates
	}
}

// WithImageError sets an error to return from InterpretImage
func WithImageError(err error) MockOption {
	return func(m *MockClient) {
		m.imageErr = err
	}
}

// WithTextError sets an error to return from InterpretText
func WithTextError(err error) MockOption {
	return func(m *MockClient) {
		m.textErr = err
	}
}

// NewMockClient creates a new mock client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{baseURL: "http://mock.interpreter"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InterpretImage returns the configured candidates
func (m *MockClient) InterpretImage(ctx context.Context, imageBase64 string) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls++
	m.lastImage = imageBase64
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return append([]Candidate(nil), m.candidates...), nil
}

// InterpretText returns the configured candidates
func (m *MockClient) InterpretText(ctx context.Context, prompt string) ([]Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls++
	m.lastPrompt = prompt
	if m.textErr != nil {
		return nil, m.textErr
	}
	return append([]Candidate(nil), m.candidates...), nil
}

// BaseURL returns the mock base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// ImageCalls returns how many times InterpretImage was called
func (m *MockClient) ImageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageCalls
}

// TextCalls returns how many times InterpretText was called
func (m *MockClient) TextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textCalls
}

// LastPrompt returns the most recent prompt
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
