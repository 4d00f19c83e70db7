// Package providers contains the built-in credential validation adapters
// and the registry that owns them.
//
// Every adapter lives in its own file and is wired up exclusively inside
// NewRegistry. Adding a provider means writing one adapter file and adding
// one Register call here; the orchestrator and every other component stay
// untouched.
package providers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// Registry manages the set of known providers.
type Registry struct {
	providers map[string]provider.Provider
}

// NewRegistry creates a registry with all built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[string]provider.Provider)}

	// Built-in providers. One line per adapter, nothing else to touch.
	r.Register(NewAnthropicProvider())
	r.Register(NewCohereProvider())
	r.Register(NewDeepSeekProvider())
	r.Register(NewGitHubProvider())
	r.Register(NewGoogleProvider())
	r.Register(NewGroqProvider())
	r.Register(NewHuggingFaceProvider())
	r.Register(NewMistralProvider())
	r.Register(NewNvidiaProvider())
	r.Register(NewOpenAIProvider())
	r.Register(NewOpenRouterProvider())
	r.Register(NewSendGridProvider())
	r.Register(NewSlackProvider())
	r.Register(NewStripeProvider())
	r.Register(NewTogetherProvider())
	r.Register(NewTwilioProvider())

	return r
}

// Register adds a provider under its own name, replacing any previous
// registration with the same name.
func (r *Registry) Register(p provider.Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (provider.Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns all registered provider names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active resolves an explicit provider subset, or the full registry when
// names is empty. An unknown name fails the whole call before any
// validation work starts.
func (r *Registry) Active(names []string) (map[string]provider.Provider, error) {
	if len(names) == 0 {
		active := make(map[string]provider.Provider, len(r.providers))
		for name, p := range r.providers {
			active[name] = p
		}
		return active, nil
	}
	active := make(map[string]provider.Provider, len(names))
	for _, name := range names {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		active[name] = p
	}
	return active, nil
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}
