// Package chat orchestrates the reply pipeline: keyword extraction,
// knowledge ranking and selection, the LLM reply, and the independent
// profile update.
package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stormteams/AIChat-sub000/internal/knowledge"
	"github.com/stormteams/AIChat-sub000/internal/llm"
	"github.com/stormteams/AIChat-sub000/internal/profile"
)

// saveRetries bounds the optimistic-concurrency retry loop for profile
// updates.
const saveRetries = 3

// Request is one inbound user message.
type Request struct {
	AgentID string
	UserID  string
	Message string
}

// Response is the generated reply plus what grounded it.
type Response struct {
	Reply    string
	Selected []knowledge.Entry
	Keywords []string
}

// Service runs the chat pipeline.
type Service struct {
	knowledge knowledge.Store
	profiles  profile.Store
	keywords  llm.KeywordExtractor
	chatter   llm.Chatter
	scorer    *knowledge.Scorer
	extractor *profile.Extractor
	merger    *profile.Merger
	metrics   *Metrics
	logger    *zap.Logger
}

// Options configures a Service.
type Options struct {
	Knowledge knowledge.Store
	Profiles  profile.Store
	Keywords  llm.KeywordExtractor
	Chatter   llm.Chatter
	Metrics   *Metrics
	Logger    *zap.Logger
}

// NewService creates the chat service.
func NewService(opts Options) (*Service, error) {
	if opts.Knowledge == nil {
		return nil, fmt.Errorf("knowledge store cannot be nil")
	}
	if opts.Profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if opts.Chatter == nil {
		return nil, fmt.Errorf("chatter cannot be nil")
	}
	if opts.Keywords == nil {
		opts.Keywords = llm.NoopKeywordExtractor{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		knowledge: opts.Knowledge,
		profiles:  opts.Profiles,
		keywords:  opts.Keywords,
		chatter:   opts.Chatter,
		scorer:    knowledge.NewScorer(),
		extractor: profile.NewExtractor(),
		merger:    profile.NewMerger(),
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}, nil
}

// Respond generates a reply for one message and applies the profile
// update. The profile update is independent of the reply path: its
// failure is logged and counted but never fails the user-visible answer.
func (s *Service) Respond(ctx context.Context, req Request) (*Response, error) {
	if req.AgentID == "" {
		return nil, knowledge.ErrEmptyAgentID
	}
	if req.UserID == "" {
		return nil, profile.ErrEmptyUserID
	}

	selected, kws := s.selectKnowledge(ctx, req)

	messages := []llm.Message{
		{Role: "system", Content: buildSystemPrompt(selected)},
		{Role: "user", Content: req.Message},
	}
	reply, err := s.chatter.Chat(ctx, messages)
	if err != nil {
		s.countReply(req.AgentID, "error")
		return nil, fmt.Errorf("generating reply: %w", err)
	}
	s.countReply(req.AgentID, "ok")

	if err := s.UpdateProfile(ctx, req.UserID, req.Message); err != nil {
		s.logger.Warn("profile update failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
	}

	return &Response{Reply: reply, Selected: selected, Keywords: kws}, nil
}

// selectKnowledge runs extraction, scoring, and selection. Keyword
// extraction failure degrades to no keywords; a missing knowledge base
// degrades to no entries. Neither is an error here.
func (s *Service) selectKnowledge(ctx context.Context, req Request) ([]knowledge.Entry, []string) {
	kws, err := s.keywords.Keywords(ctx, req.Message)
	if err != nil {
		if s.metrics != nil {
			s.metrics.KeywordFailures.Inc()
		}
		s.logger.Warn("keyword extraction failed, scoring without AI keywords",
			zap.String("agent_id", req.AgentID),
			zap.Error(err),
		)
		kws = nil
	}

	entries, err := s.knowledge.List(ctx, req.AgentID)
	if err != nil {
		if !errors.Is(err, knowledge.ErrAgentNotFound) {
			s.logger.Warn("knowledge lookup failed",
				zap.String("agent_id", req.AgentID),
				zap.Error(err),
			)
		}
		entries = nil
	}

	scored := s.scorer.Score(req.Message, entries, kws)
	selected := knowledge.Select(scored)

	if s.metrics != nil {
		s.metrics.SelectedEntries.Observe(float64(len(selected)))
	}
	s.logger.Debug("knowledge selected",
		zap.String("agent_id", req.AgentID),
		zap.Int("candidates", len(entries)),
		zap.Int("selected", len(selected)),
		zap.Strings("keywords", kws),
	)

	return selected, kws
}

// UpdateProfile extracts profile fragments from the message and merges
// them into the stored profile under an optimistic-concurrency retry
// loop. An empty extraction still counts the interaction.
func (s *Service) UpdateProfile(ctx context.Context, userID, message string) error {
	partial := s.extractor.Extract(message)

	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		existing, version, err := s.profiles.Get(ctx, userID)
		if errors.Is(err, profile.ErrNotFound) {
			existing, version = profile.Empty(), 0
		} else if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		merged := s.merger.Merge(existing, partial)
		merged.Meta.Source = "chat"

		err = s.profiles.Save(ctx, userID, merged, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, profile.ErrVersionConflict) {
			return fmt.Errorf("saving profile: %w", err)
		}

		// Lost the race to a concurrent message; re-read and re-merge.
		if s.metrics != nil {
			s.metrics.MergeConflicts.Inc()
		}
		lastErr = err
	}

	if s.metrics != nil {
		s.metrics.ProfileSaveFailure.Inc()
	}
	return fmt.Errorf("profile save retries exhausted: %w", lastErr)
}

// GetProfile returns the stored profile for a user. A user without a
// profile returns an empty one.
func (s *Service) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	p, _, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		return profile.Empty(), nil
	}
	if err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// countReply records the reply outcome metric.
func (s *Service) countReply(agentID, outcome string) {
	if s.metrics != nil {
		s.metrics.RepliesTotal.WithLabelValues(agentID, outcome).Inc()
	}
}
