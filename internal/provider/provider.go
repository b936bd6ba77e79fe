package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Credentials are supplied per request by the extension; the backend never
// stores them.
type Credentials struct {
	APIKey  string
	BaseURL string // optional endpoint override
}

// KeyMoment is one timestamped highlight inside a summary
type KeyMoment struct {
	Offset   float64 `json:"timestamp"` // seconds from video start
	Headline string  `json:"headline"`
}

// Summary is the structured output of a summarization call
type Summary struct {
	Synopsis   string      `json:"synopsis"`
	KeyMoments []KeyMoment `json:"key_moments"`
}

// Provider is the common capability set implemented per AI vendor
type Provider interface {
	// Name returns the provider identifier
	Name() string
	// Transcribe converts a local audio file to WebVTT
	Transcribe(ctx context.Context, audioPath, model string, creds Credentials) (string, error)
	// Translate replaces cue text with translations, preserving every
	// cue's timestamps and the cue count
	Translate(ctx context.Context, vttContent, targetLang, model string, creds Credentials, updateProgress func(float64)) (string, error)
	// Summarize produces a synopsis with key moments from a transcript
	Summarize(ctx context.Context, transcript, targetLang, model string, creds Credentials) (*Summary, error)
}

// Registry maps provider identifiers to instances
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its own name
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider for an identifier, or ErrUnknownProvider
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownProvider, name, r.names())
	}
	return p, nil
}

// Names returns registered provider identifiers, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
