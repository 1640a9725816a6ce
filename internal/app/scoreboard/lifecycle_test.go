package scoreboard_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/scoreboard-service/internal/app/scoreboard"
	"github.com/preston-bernstein/scoreboard-service/internal/domain"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func TestStartMatchFailsWhenHomeTeamUnavailable(t *testing.T) {
	england := testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, england)

	_, err := svc.StartMatchAt(context.Background(), uuid.New(), england.ID, testutil.Kickoff)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if regs.Ongoing.Count() != 0 {
		t.Fatalf("expected no match created")
	}
	if regs.Pool.Count() != 1 {
		t.Fatalf("expected visitor untouched, got %d available", regs.Pool.Count())
	}
}

func TestStartMatchVisitorUnavailableKeepsHomeReserved(t *testing.T) {
	austria := testutil.SampleTeam("Austria")
	svc, regs := testutil.NewServiceWithTeams(nil, austria)

	_, err := svc.StartMatchAt(context.Background(), austria.ID, uuid.New(), testutil.Kickoff)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	dErr, ok := domain.AsError(err)
	if !ok || dErr.Resource != "visitor team" {
		t.Fatalf("expected visitor team error, got %v", err)
	}
	if regs.Ongoing.Count() != 0 {
		t.Fatalf("expected no match created")
	}
	if _, ok := regs.Pool.Reserve(austria.ID); ok {
		t.Fatalf("expected home team to stay reserved after failed start")
	}
}

func TestStartMatchWithSameTeamTwiceFails(t *testing.T) {
	austria := testutil.SampleTeam("Austria")
	svc, regs := testutil.NewServiceWithTeams(nil, austria)

	_, err := svc.StartMatchAt(context.Background(), austria.ID, austria.ID, testutil.Kickoff)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if regs.Ongoing.Count() != 0 {
		t.Fatalf("expected no match created")
	}
}

func TestStartMatchFailsWhenTeamAlreadyPlaying(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, _ := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	if _, err := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff); err != nil {
		t.Fatalf("expected first start to succeed, got %v", err)
	}
	if _, err := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for busy teams, got %v", err)
	}
	if n, _ := svc.CountOngoing(ctx); n != 1 {
		t.Fatalf("expected exactly 1 ongoing match, got %d", n)
	}
}

func TestStartMatchReservesBothTeams(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(testutil.FakeClockAt(testutil.Kickoff), austria, england)

	m, err := svc.StartMatch(context.Background(), austria.ID, england.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.ID == uuid.Nil || m.HomeTeam != austria || m.VisitorTeam != england {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Score.Home != 0 || m.Score.Visitor != 0 {
		t.Fatalf("expected 0:0 start, got %+v", m.Score)
	}
	if !m.StartTime.Equal(testutil.Kickoff) {
		t.Fatalf("expected clock start time, got %s", m.StartTime)
	}
	if regs.Pool.Count() != 0 {
		t.Fatalf("expected both teams reserved, got %d available", regs.Pool.Count())
	}
	avail, _ := svc.AvailableTeams(context.Background())
	if len(avail) != 0 {
		t.Fatalf("expected no available teams, got %d", len(avail))
	}
}

func TestConcurrentStartsForSamePairHaveSingleWinner(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, _ := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	const callers = 32
	var wins, notFound int32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, domain.ErrNotFound):
				atomic.AddInt32(&notFound, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || notFound != callers-1 {
		t.Fatalf("expected 1 winner and %d not found, got %d/%d", callers-1, wins, notFound)
	}
	if n, _ := svc.CountOngoing(ctx); n != 1 {
		t.Fatalf("expected exactly 1 ongoing match, got %d", n)
	}
}

func TestUpdateMatch(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, _ := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
	updated, err := svc.UpdateMatch(ctx, m.ID, 4, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Score.Home != 4 || updated.Score.Visitor != 1 {
		t.Fatalf("unexpected score %+v", updated.Score)
	}
	if updated.ID != m.ID || !updated.StartTime.Equal(m.StartTime) {
		t.Fatalf("expected identity preserved")
	}
	if n, _ := svc.CountOngoing(ctx); n != 1 {
		t.Fatalf("expected 1 ongoing match, got %d", n)
	}
}

func TestUpdateMatchRejectsNegativeScores(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
	_, _ = svc.UpdateMatch(ctx, m.ID, 2, 1)

	for _, score := range [][2]int{{-1, 0}, {0, -1}, {-5, -5}} {
		if _, err := svc.UpdateMatch(ctx, m.ID, score[0], score[1]); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid argument for %v, got %v", score, err)
		}
	}
	stored, _ := regs.Ongoing.Get(m.ID)
	if stored.Score.Home != 2 || stored.Score.Visitor != 1 {
		t.Fatalf("expected score unchanged, got %+v", stored.Score)
	}

	if _, err := svc.UpdateMatch(ctx, uuid.New(), 1, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown match, got %v", err)
	}
}

func TestFinishMatchReleasesTeamsAndArchives(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
	_, _ = svc.UpdateMatch(ctx, m.ID, 4, 1)

	if err := svc.FinishMatch(ctx, m.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n, _ := svc.CountOngoing(ctx); n != 0 {
		t.Fatalf("expected 0 ongoing matches, got %d", n)
	}
	if regs.Pool.Count() != 2 {
		t.Fatalf("expected both teams available again, got %d", regs.Pool.Count())
	}
	summary, _ := svc.FinishedSummary(ctx)
	if len(summary) != 1 || summary[0].ID != m.ID || summary[0].Score.Home != 4 || summary[0].Score.Visitor != 1 {
		t.Fatalf("expected archived final score, got %+v", summary)
	}

	if _, err := svc.StartMatchAt(ctx, england.ID, austria.ID, testutil.Kickoff); err != nil {
		t.Fatalf("expected teams to be playable again, got %v", err)
	}
}

func TestFinishMatchTwiceFailsWithNotFound(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()

	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
	if err := svc.FinishMatch(ctx, m.ID); err != nil {
		t.Fatalf("expected first finish to succeed, got %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := svc.FinishMatch(ctx, m.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found on repeat finish, got %v", err)
		}
	}
	if regs.Finished.Count() != 1 {
		t.Fatalf("expected exactly one archived record, got %d", regs.Finished.Count())
	}
	if _, err := svc.UpdateMatch(ctx, m.ID, 1, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected finished match to reject updates, got %v", err)
	}
}

func TestConcurrentFinishHasSingleWinner(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()
	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)

	const callers = 32
	var wins int32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if err := svc.FinishMatch(ctx, m.ID); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly 1 successful finish, got %d", wins)
	}
	if regs.Finished.Count() != 1 || regs.Pool.Count() != 2 {
		t.Fatalf("expected 1 archived and 2 available, got %d/%d", regs.Finished.Count(), regs.Pool.Count())
	}
}

func TestFinishRacingUpdatesNeverLosesMatch(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	svc, regs := testutil.NewServiceWithTeams(nil, austria, england)
	ctx := context.Background()
	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = svc.UpdateMatch(ctx, m.ID, n, n)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.FinishMatch(ctx, m.ID)
	}()
	wg.Wait()

	if regs.Ongoing.Count() != 0 || regs.Finished.Count() != 1 {
		t.Fatalf("expected match moved to archive, got ongoing=%d finished=%d", regs.Ongoing.Count(), regs.Finished.Count())
	}
	final := regs.Finished.List()[0]
	if final.Score.Home != final.Score.Visitor {
		t.Fatalf("expected untorn final score, got %+v", final.Score)
	}
}

func TestFinishReportsReleaseConflict(t *testing.T) {
	austria, england := testutil.SampleTeam("Austria"), testutil.SampleTeam("England")
	logger, buf := testutil.NewBufferLogger()
	_, regs := testutil.NewServiceWithTeams(nil, austria, england)
	svc := scoreboard.NewService(regs.Pool, regs.Ongoing, regs.Finished, scoreboard.WithLogger(logger))
	ctx := context.Background()

	m, _ := svc.StartMatchAt(ctx, austria.ID, england.ID, testutil.Kickoff)
	// Another collaborator puts the home team back while it is still playing.
	if _, err := regs.Pool.Release(austria); err != nil {
		t.Fatalf("expected manual release to succeed, got %v", err)
	}

	err := svc.FinishMatch(ctx, m.ID)
	if !errors.Is(err, scoreboard.ErrTeamRelease) || !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected release conflict, got %v", err)
	}
	if regs.Finished.Count() != 1 || regs.Ongoing.Count() != 0 {
		t.Fatalf("expected match archived despite conflict")
	}
	if regs.Pool.Count() != 2 {
		t.Fatalf("expected both teams available, got %d", regs.Pool.Count())
	}
	if !strings.Contains(buf.String(), "failed to release team") {
		t.Fatalf("expected release failure logged, got %q", buf.String())
	}
}

func TestFinishedSummaryOrdering(t *testing.T) {
	names := []string{"Austria", "England", "France", "Belgium", "Turkey", "Hungary", "USA", "Brazil"}
	ts := testutil.SampleTeams(names...)
	svc, regs := testutil.NewServiceWithTeams(nil, ts...)
	ctx := context.Background()

	t1 := testutil.MustParseRFC3339("2024-10-07T12:00:00Z")
	t2 := testutil.MustParseRFC3339("2024-10-07T13:00:00Z")

	m1, _ := svc.StartMatchAt(ctx, ts[0].ID, ts[1].ID, t1)
	m2, _ := svc.StartMatchAt(ctx, ts[2].ID, ts[3].ID, t1)
	m3, _ := svc.StartMatchAt(ctx, ts[4].ID, ts[5].ID, t2)
	m4, _ := svc.StartMatchAt(ctx, ts[6].ID, ts[7].ID, t1)

	_, _ = svc.UpdateMatch(ctx, m1.ID, 4, 1)
	_, _ = svc.UpdateMatch(ctx, m2.ID, 1, 3)
	_, _ = svc.UpdateMatch(ctx, m3.ID, 1, 1)
	_, _ = svc.UpdateMatch(ctx, m4.ID, 1, 1)

	// Finish in an order that differs from the expected ranking.
	for _, id := range []uuid.UUID{m4.ID, m3.ID, m2.ID, m1.ID} {
		if err := svc.FinishMatch(ctx, id); err != nil {
			t.Fatalf("expected finish to succeed, got %v", err)
		}
	}

	summary, err := svc.FinishedSummary(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []uuid.UUID{m1.ID, m2.ID, m3.ID, m4.ID}
	if len(summary) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(summary))
	}
	for i, id := range want {
		if summary[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, summary[i].ID)
		}
	}

	archived := regs.Finished.List()
	if archived[0].ID != m4.ID {
		t.Fatalf("expected archive to keep completion order")
	}
}

func TestOngoingMatchesSnapshot(t *testing.T) {
	ts := testutil.SampleTeams("A", "B", "C", "D")
	svc, _ := testutil.NewServiceWithTeams(nil, ts...)
	ctx := context.Background()

	late, _ := svc.StartMatchAt(ctx, ts[0].ID, ts[1].ID, testutil.Kickoff.Add(time.Minute))
	early, _ := svc.StartMatchAt(ctx, ts[2].ID, ts[3].ID, testutil.Kickoff)

	live, err := svc.OngoingMatches(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(live) != 2 || live[0].ID != early.ID || live[1].ID != late.ID {
		t.Fatalf("expected live matches ordered by start, got %+v", live)
	}
}
