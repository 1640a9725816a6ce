package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/domain"
)

func TestMetricFieldKeysAreStable(t *testing.T) {
	if AttrOperation == "" || AttrOutcome == "" {
		t.Fatalf("expected metric attribute keys to be non-empty")
	}
}

func TestOutcomeOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{domain.NotFound("match", "m1"), OutcomeNotFound},
		{fmt.Errorf("wrapped: %w", domain.InvalidArgument("match", "bad")), OutcomeInvalidArgument},
		{domain.AlreadyExists("team", "t1"), OutcomeAlreadyExists},
		{errors.New("boom"), OutcomeError},
	}
	for _, tc := range cases {
		if got := OutcomeOf(tc.err); got != tc.want {
			t.Fatalf("expected %s for %v, got %s", tc.want, tc.err, got)
		}
	}
}
