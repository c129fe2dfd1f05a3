// Package services wires chatd's components together behind a single
// registry, so the entry point and tests build the dependency graph in
// one place.
package services

import (
	"github.com/stormteams/AIChat-sub000/internal/chat"
	"github.com/stormteams/AIChat-sub000/internal/knowledge"
	"github.com/stormteams/AIChat-sub000/internal/llm"
	"github.com/stormteams/AIChat-sub000/internal/profile"
)

// Registry provides access to all chatd services.
type Registry interface {
	Chat() *chat.Service
	Knowledge() knowledge.Store
	Profiles() profile.Store
	Keywords() llm.KeywordExtractor
}

// Options configures the registry with service instances.
type Options struct {
	Chat      *chat.Service
	Knowledge knowledge.Store
	Profiles  profile.Store
	Keywords  llm.KeywordExtractor
}

// registry is the concrete implementation of Registry.
type registry struct {
	chat      *chat.Service
	knowledge knowledge.Store
	profiles  profile.Store
	keywords  llm.KeywordExtractor
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		chat:      opts.Chat,
		knowledge: opts.Knowledge,
		profiles:  opts.Profiles,
		keywords:  opts.Keywords,
	}
}

func (r *registry) Chat() *chat.Service            { return r.chat }
func (r *registry) Knowledge() knowledge.Store     { return r.knowledge }
func (r *registry) Profiles() profile.Store        { return r.profiles }
func (r *registry) Keywords() llm.KeywordExtractor { return r.keywords }
