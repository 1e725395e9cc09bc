package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meresu/lead-advisor/internal/intent"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/scoring"
)

type stubResponder struct {
	response   string
	err        error
	block      bool
	lastPrompt string
}

func (s *stubResponder) Complete(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubResponder) Model() string { return "stub-model" }

func testProjects() *leads.Projects {
	return &leads.Projects{Items: []*leads.Project{
		{
			ProjectType:       "Railway Bridge Construction",
			Urgency:           "high",
			SteelRequirements: "5000 tons",
			Company:           "Tata Projects",
			Title:             "Railway Bridge",
		},
		{
			ProjectType: "Office IT Upgrade",
			Urgency:     "low",
			Company:     "Infosys",
			Title:       "Office IT Upgrade",
		},
	}}
}

func newTestAdvisor(opts Options) *Advisor {
	return New(scoring.NewScorer(scoring.DefaultWeights, zap.NewNop()), opts, zap.NewNop())
}

func TestAdviseLocalWithoutResponder(t *testing.T) {
	t.Parallel()

	a := newTestAdvisor(Options{})
	reply := a.Advise(context.Background(), testProfile, "prioritize urgent projects", testProjects())

	if reply.Source != SourceLocal {
		t.Fatalf("expected local source, got %q", reply.Source)
	}
	if reply.FallbackReason != ReasonNoResponder {
		t.Fatalf("unexpected fallback reason: %q", reply.FallbackReason)
	}
	if reply.Intent != intent.Priority {
		t.Fatalf("expected priority intent, got %q", reply.Intent)
	}
	if !strings.Contains(reply.Text, "High-Priority") {
		t.Fatalf("expected priority heading:\n%s", reply.Text)
	}
}

func TestAdviseModelSuccess(t *testing.T) {
	t.Parallel()

	stub := &stubResponder{response: "## Model Answer\nGo for the bridge."}
	a := newTestAdvisor(Options{Responder: stub})

	reply := a.Advise(context.Background(), testProfile, "what about steel?", testProjects())

	if reply.Source != SourceModel {
		t.Fatalf("expected model source, got %q (reason %q)", reply.Source, reply.FallbackReason)
	}
	if reply.Text != stub.response {
		t.Fatalf("unexpected text: %q", reply.Text)
	}
	if reply.FallbackReason != "" {
		t.Fatalf("fallback reason set on model reply: %q", reply.FallbackReason)
	}
	if !strings.Contains(stub.lastPrompt, "Railway Bridge") {
		t.Fatalf("prompt missing shortlist:\n%s", stub.lastPrompt)
	}
}

func TestAdviseFallbackMatchesCompose(t *testing.T) {
	t.Parallel()

	stub := &stubResponder{err: errors.New("boom")}
	a := newTestAdvisor(Options{Responder: stub})

	profile := testProfile
	query := "prioritize urgent projects"
	projects := testProjects()

	reply := a.Advise(context.Background(), profile, query, projects)

	if reply.Source != SourceLocal {
		t.Fatalf("expected local source, got %q", reply.Source)
	}
	if reply.FallbackReason != ReasonFailed {
		t.Fatalf("unexpected fallback reason: %q", reply.FallbackReason)
	}

	// The fallback text must be byte-identical to composing directly.
	scorer := scoring.NewScorer(scoring.DefaultWeights, zap.NewNop())
	ranked := scoring.Rank(scorer.ScoreAll(projects, profile, query), scoring.DefaultLimit)
	expected := Compose(intent.Classify(query), profile, query, ranked)
	if reply.Text != expected {
		t.Fatalf("fallback text differs from direct composition:\n--- got ---\n%s\n--- want ---\n%s", reply.Text, expected)
	}
}

func TestAdviseTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	stub := &stubResponder{block: true}
	a := newTestAdvisor(Options{Responder: stub, Timeout: 10 * time.Millisecond})

	start := time.Now()
	reply := a.Advise(context.Background(), testProfile, "anything?", testProjects())

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("advise did not respect timeout, took %s", elapsed)
	}
	if reply.Source != SourceLocal {
		t.Fatalf("expected local source after timeout, got %q", reply.Source)
	}
	if reply.FallbackReason != ReasonTimeout {
		t.Fatalf("expected timeout reason, got %q", reply.FallbackReason)
	}
}

func TestAdviseEndToEndScenario(t *testing.T) {
	t.Parallel()

	a := newTestAdvisor(Options{})
	reply := a.Advise(context.Background(), testProfile, "prioritize urgent projects", testProjects())

	if len(reply.Projects) != 2 {
		t.Fatalf("expected both projects in shortlist, got %d", len(reply.Projects))
	}
	if reply.Projects[0].Project.Title != "Railway Bridge" {
		t.Fatalf("expected bridge ranked first, got %q", reply.Projects[0].Project.Title)
	}
	if reply.Projects[0].Score <= reply.Projects[1].Score {
		t.Fatalf("expected strict ordering, got %d vs %d", reply.Projects[0].Score, reply.Projects[1].Score)
	}

	if !strings.Contains(reply.Text, "High-Priority") {
		t.Fatalf("heading missing:\n%s", reply.Text)
	}
	if !strings.Contains(reply.Text, "**2. Infosys**: Office IT Upgrade") {
		t.Fatalf("second block missing:\n%s", reply.Text)
	}
	if !strings.Contains(reply.Text, "• **Value**: Not specified") {
		t.Fatalf("value fallback missing for office record:\n%s", reply.Text)
	}
}

func TestAdviseEmptySnapshot(t *testing.T) {
	t.Parallel()

	a := newTestAdvisor(Options{})
	reply := a.Advise(context.Background(), testProfile, "anything?", &leads.Projects{})

	if len(reply.Projects) != 0 {
		t.Fatalf("expected empty shortlist, got %d", len(reply.Projects))
	}
	if !strings.Contains(reply.Text, noResultsLine) {
		t.Fatalf("expected no-results marker:\n%s", reply.Text)
	}
}
