// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package collaborator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/retry"
	"github.com/AleutianAI/clewbraid/internal/sanitizer"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// maxConcurrentResolutions bounds how many conflict-resolution prompts
// SuggestResolution has in flight at once; the rate limiter already
// paces requests per second, this additionally caps how many can be
// queued on the limiter simultaneously.
const maxConcurrentResolutions = 4

// LangChain is a Collaborator backed by an LLM reached through
// langchaingo, paced by a token-bucket limiter and wrapped in the
// module's retry driver for transient failures.
type LangChain struct {
	model   llms.Model
	limiter *rate.Limiter
	backoff retry.Config
	log     *slog.Logger
}

// LangChainOption configures a LangChain collaborator.
type LangChainOption func(*LangChain)

// WithRequestsPerSecond sets the token-bucket rate (and its burst,
// equal to the rate truncated to an integer, but at least 1) requests
// are paced at.
func WithRequestsPerSecond(rps float64) LangChainOption {
	return func(c *LangChain) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBackoff overrides the retry schedule used for transient failures.
func WithBackoff(cfg retry.Config) LangChainOption {
	return func(c *LangChain) { c.backoff = cfg }
}

// WithLogger overrides the logger used for refine/resolution failures.
func WithLogger(l *slog.Logger) LangChainOption {
	return func(c *LangChain) { c.log = l }
}

// NewLangChain builds a LangChain collaborator using cred's plaintext
// value only for the duration of client construction.
func NewLangChain(cred *Credential, baseModel string, opts ...LangChainOption) (*LangChain, error) {
	c := &LangChain{
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		backoff: retry.Config{InitialBackoffMs: 200, MaxBackoffMs: 5000, Jitter: true},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var model llms.Model
	var buildErr error
	cred.WithValue(func(value []byte) {
		m, err := openai.New(openai.WithToken(string(value)), openai.WithModel(baseModel))
		if err != nil {
			buildErr = fmt.Errorf("collaborator: build langchaingo client: %w", err)
			return
		}
		model = m
	})
	if buildErr != nil {
		return nil, buildErr
	}
	c.model = model
	return c, nil
}

// Refine asks the model to propose additional semantic constraints
// given the candidates mined so far, serialized as a compact JSON
// prompt. Each suggestion becomes a LLM_Analysis-sourced constraint.
func (c *LangChain) Refine(ctx context.Context, candidates []constraint.Constraint) ([]constraint.Constraint, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", constraint.ErrCollaboratorUnavailable, err)
	}

	prompt := buildRefinePrompt(candidates)
	text, err := retry.WithRetry(ctx, c.backoff, 2, func(ctx context.Context) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	})
	if err != nil {
		c.log.WarnContext(ctx, "collaborator refine failed", "error", err)
		return nil, fmt.Errorf("%w: %v", constraint.ErrCollaboratorUnavailable, err)
	}

	return parseRefineResponse(text), nil
}

// SuggestResolution asks the model to pick a resolution action per
// conflict. A failure for an individual conflict leaves that slot's
// action empty rather than failing the batch; the resolver treats an
// empty action as "no suggestion" and applies its default strategy.
func (c *LangChain) SuggestResolution(ctx context.Context, conflicts []ConflictSummary) ([]Action, error) {
	if len(conflicts) == 0 {
		return nil, nil
	}

	out := make([]Action, len(conflicts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolutions)

	for i, conf := range conflicts {
		i, conf := i, conf
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil
			}
			prompt := buildResolvePrompt(conf)
			text, err := retry.WithRetry(ctx, c.backoff, 2, func(ctx context.Context) (string, error) {
				return llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
			})
			if err != nil {
				c.log.WarnContext(ctx, "collaborator resolve failed", "error", err, "conflict_a", conf.AName, "conflict_b", conf.BName)
				return nil
			}
			out[i] = parseResolveResponse(text)
			return nil
		})
	}
	_ = g.Wait() // every goroutine always returns nil; failures are recorded per-index above.
	return out, nil
}

func buildRefinePrompt(candidates []constraint.Constraint) string {
	var b strings.Builder
	b.WriteString("Given these mined code constraints, suggest additional semantic constraints as a JSON array of {name, description}. Existing constraints:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", c.Kind, c.Name, c.Description)
	}
	return b.String()
}

type refineSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func parseRefineResponse(text string) []constraint.Constraint {
	var suggestions []refineSuggestion
	if err := json.Unmarshal([]byte(extractJSON(text)), &suggestions); err != nil || len(suggestions) == 0 {
		return nil
	}
	out := make([]constraint.Constraint, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Name == "" {
			continue
		}
		// Model output is untrusted text; it passes through the same
		// sanitizer every extractor-mined string does before it can
		// live on a Constraint.
		out = append(out, constraint.NewConstraint(
			sanitizer.Name(s.Name),
			sanitizer.Description(s.Description),
			constraint.KindSemantic, constraint.SourceLLMAnalysis, constraint.SeverityInfo))
	}
	return out
}

func buildResolvePrompt(conf ConflictSummary) string {
	return fmt.Sprintf(
		"Two constraints conflict. A: [%s] %s (%s). B: [%s] %s (%s). Reply with exactly one of: disable_a, disable_b, merge, modify_a, modify_b.",
		conf.AKind, conf.AName, conf.ADesc, conf.BKind, conf.BName, conf.BDesc,
	)
}

func parseResolveResponse(text string) Action {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(t, "disable_a"):
		return Action{Type: ActionDisableA}
	case strings.Contains(t, "merge"):
		return Action{Type: ActionMerge}
	case strings.Contains(t, "modify_a"):
		return Action{Type: ActionModifyA}
	case strings.Contains(t, "modify_b"):
		return Action{Type: ActionModifyB}
	default:
		return Action{Type: ActionDisableB}
	}
}

// extractJSON returns the first top-level JSON array or object found in
// text, tolerating a model that wraps its answer in prose or markdown
// fences.
func extractJSON(text string) string {
	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return "[]"
	}
	open, close := text[start], byte(']')
	if open == '{' {
		close = '}'
	}
	end := strings.LastIndexByte(text, close)
	if end < start {
		return "[]"
	}
	return text[start : end+1]
}

var _ Collaborator = (*LangChain)(nil)
