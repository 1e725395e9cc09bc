// Package advisor turns a lead snapshot, a user profile and a free-text
// query into a ranked, explained recommendation. Responses come from a
// language-model responder when one is configured and reachable, and from
// the local composer otherwise; a transport failure is never surfaced to the
// user as an error.
package advisor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/meresu/lead-advisor/internal/ai"
	"github.com/meresu/lead-advisor/internal/intent"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/logger"
	"github.com/meresu/lead-advisor/internal/scoring"
)

// DefaultTimeout bounds the responder call. The upstream service had no
// bound at all; expiry is treated as one more fallback reason.
const DefaultTimeout = 30 * time.Second

// Reply sources.
const (
	SourceModel = "model"
	SourceLocal = "local"
)

// Fallback reasons recorded on locally composed replies.
const (
	ReasonNoResponder = "no responder configured"
	ReasonTimeout     = "completion timed out"
	ReasonFailed      = "completion failed"
)

// Reply is the advisor's answer. Source tells the caller whether the text
// came from the model or the local composer; FallbackReason is set only on
// local replies that were meant to go through the model.
type Reply struct {
	Text           string                  `json:"text"`
	Intent         intent.Intent           `json:"intent"`
	Source         string                  `json:"source"`
	FallbackReason string                  `json:"fallback_reason,omitempty"`
	Projects       []scoring.ScoredProject `json:"projects"`
}

type Advisor struct {
	scorer    *scoring.Scorer
	responder ai.Responder
	timeout   time.Duration
	limit     int
	logger    *zap.Logger
}

// Options tunes an Advisor. Zero values select the defaults.
type Options struct {
	// Responder is the optional language-model backend. Nil means every
	// reply is composed locally.
	Responder ai.Responder
	// Timeout bounds a single responder call.
	Timeout time.Duration
	// Limit is the shortlist size.
	Limit int
}

func New(scorer *scoring.Scorer, opts Options, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Limit <= 0 {
		opts.Limit = scoring.DefaultLimit
	}

	return &Advisor{
		scorer:    scorer,
		responder: opts.Responder,
		timeout:   opts.Timeout,
		limit:     opts.Limit,
		logger:    log,
	}
}

// Advise classifies the query, scores and ranks the snapshot, and returns a
// reply. All projects stay in scope for ranking regardless of intent; the
// intent picks the template and biases the scoring inputs only.
func (a *Advisor) Advise(ctx context.Context, profile leads.Profile, query string, projects *leads.Projects) *Reply {
	focus := intent.Classify(query)
	scored := a.scorer.ScoreAll(projects, profile, query)
	ranked := scoring.Rank(scored, a.limit)

	a.logger.Debug("advisor shortlist ready",
		zap.String("intent", string(focus)),
		zap.Int("candidates", projects.Len()),
		zap.Int("shortlist", len(ranked)),
	)

	reply := &Reply{
		Intent:   focus,
		Projects: ranked,
	}

	if a.responder == nil {
		reply.Text = Compose(focus, profile, query, ranked)
		reply.Source = SourceLocal
		reply.FallbackReason = ReasonNoResponder
		return reply
	}

	text, reason := a.complete(ctx, profile, query, focus, ranked)
	if reason != "" {
		reply.Text = Compose(focus, profile, query, ranked)
		reply.Source = SourceLocal
		reply.FallbackReason = reason
		return reply
	}

	reply.Text = text
	reply.Source = SourceModel
	return reply
}

// complete runs the bounded responder call. It returns the completion text,
// or an empty text with a non-empty fallback reason.
func (a *Advisor) complete(ctx context.Context, profile leads.Profile, query string, focus intent.Intent, ranked []scoring.ScoredProject) (string, string) {
	prompt := ai.BuildPrompt(profile, query, focus, ranked)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.responder.Complete(ctx, prompt)
	if err != nil {
		reason := ReasonFailed
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}

		a.logger.Warn("completion fell back to local composer",
			zap.String("model", a.responder.Model()),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return "", reason
	}

	a.logger.Debug("completion succeeded",
		zap.String("model", a.responder.Model()),
		zap.String("response_preview", logger.Truncate(text, 200)),
	)
	return text, ""
}
