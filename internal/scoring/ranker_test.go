package scoring

import (
	"strconv"
	"testing"

	"github.com/meresu/lead-advisor/internal/leads"
)

func TestRankStability(t *testing.T) {
	t.Parallel()

	a := &leads.Project{Title: "A"}
	b := &leads.Project{Title: "B"}
	c := &leads.Project{Title: "C"}

	ranked := Rank([]ScoredProject{
		{Project: a, Score: 10},
		{Project: b, Score: 10},
		{Project: c, Score: 5},
	}, 10)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}
	if ranked[0].Project != a || ranked[1].Project != b || ranked[2].Project != c {
		t.Fatalf("tie order not preserved: got %s, %s, %s",
			ranked[0].Project.Title, ranked[1].Project.Title, ranked[2].Project.Title)
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	t.Parallel()

	scored := make([]ScoredProject, 0, 25)
	for i := 0; i < 25; i++ {
		scored = append(scored, ScoredProject{
			Project: &leads.Project{Title: "P" + strconv.Itoa(i)},
			Score:   i,
		})
	}

	ranked := Rank(scored, 10)

	if len(ranked) != 10 {
		t.Fatalf("expected exactly 10 results, got %d", len(ranked))
	}
	// The ten highest scores are 24 down to 15.
	for i, sp := range ranked {
		if expect := 24 - i; sp.Score != expect {
			t.Fatalf("position %d: expected score %d, got %d", i, expect, sp.Score)
		}
	}
}

func TestRankShortInputAndDefaults(t *testing.T) {
	t.Parallel()

	scored := []ScoredProject{
		{Project: &leads.Project{Title: "only"}, Score: 1},
	}

	if got := Rank(scored, 10); len(got) != 1 {
		t.Fatalf("expected all projects when fewer than limit, got %d", len(got))
	}
	if got := Rank(scored, 0); len(got) != 1 {
		t.Fatalf("zero limit must fall back to default, got %d", len(got))
	}
	if got := Rank(nil, 10); len(got) != 0 {
		t.Fatalf("nil input must produce empty output, got %d", len(got))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	scored := []ScoredProject{
		{Project: &leads.Project{Title: "low"}, Score: 1},
		{Project: &leads.Project{Title: "high"}, Score: 9},
	}

	Rank(scored, 10)

	if scored[0].Project.Title != "low" {
		t.Fatalf("input slice was reordered")
	}
}
