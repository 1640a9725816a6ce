package matches

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func scored(t *testing.T, home, visitor int, start time.Time) Match {
	t.Helper()
	m, err := NewMatch(uuid.New(), team(t, "home"), team(t, "visitor"), Score{Home: home, Visitor: visitor}, start)
	if err != nil {
		t.Fatalf("failed to build match: %v", err)
	}
	return m
}

func TestSortSummaryOrdersByTotalThenRecency(t *testing.T) {
	t1 := kickoff
	t2 := kickoff.Add(time.Hour)

	a := scored(t, 4, 1, t1)
	b := scored(t, 1, 3, t1)
	c := scored(t, 1, 1, t2)
	d := scored(t, 1, 1, t1)

	got := SortSummary([]Match{d, c, b, a})
	want := []Match{a, b, c, d}

	if len(got) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("position %d: expected %s (total %d), got %s (total %d)",
				i, want[i].ID, want[i].TotalScore(), got[i].ID, got[i].TotalScore())
		}
	}
}

func TestSortSummaryDoesNotMutateInput(t *testing.T) {
	low := scored(t, 0, 0, kickoff)
	high := scored(t, 3, 3, kickoff)
	in := []Match{low, high}

	_ = SortSummary(in)

	if in[0].ID != low.ID || in[1].ID != high.ID {
		t.Fatalf("expected input order preserved")
	}
}

func TestSortSummaryKeepsInputOrderOnFullTie(t *testing.T) {
	first := scored(t, 1, 0, kickoff)
	second := scored(t, 0, 1, kickoff)

	got := SortSummary([]Match{first, second})
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("expected stable order for tied matches")
	}
}

func TestSortSummaryEmpty(t *testing.T) {
	if got := SortSummary(nil); len(got) != 0 {
		t.Fatalf("expected empty summary, got %d", len(got))
	}
}
