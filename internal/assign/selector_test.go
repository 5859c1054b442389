package assign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeSource struct {
	candidates []Candidate
	err        error
	calls      int
	gotRegion  string
}

func (f *fakeSource) CandidatesByRegion(_ context.Context, region string) ([]Candidate, error) {
	f.calls++
	f.gotRegion = region
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func candidate(open int, created time.Time) Candidate {
	return Candidate{ID: uuid.New(), OpenCount: open, CreatedAt: created}
}

func TestSelectSkipsWithoutRegion(t *testing.T) {
	src := &fakeSource{candidates: []Candidate{candidate(0, time.Now())}}
	sel := NewSelector(src)

	for name, region := range map[string]*string{"nil": nil, "empty": new(string)} {
		got, err := sel.Select(context.Background(), region)
		if err != nil {
			t.Errorf("%s region: unexpected error: %v", name, err)
		}
		if got != nil {
			t.Errorf("%s region: selected %v, want skip", name, got.ID)
		}
	}
	if src.calls != 0 {
		t.Errorf("candidate source was read %d times, want 0", src.calls)
	}
}

func TestSelectSkipsWhenNobodyEligible(t *testing.T) {
	src := &fakeSource{}
	sel := NewSelector(src)
	region := "Pune"

	got, err := sel.Select(context.Background(), &region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("selected %v from an empty pool, want skip", got.ID)
	}
	if src.gotRegion != "Pune" {
		t.Errorf("source queried with region %q, want %q", src.gotRegion, "Pune")
	}
}

func TestSelectPicksLowestOpenCount(t *testing.T) {
	now := time.Now()
	busy := candidate(3, now.Add(-48*time.Hour))
	free := candidate(1, now)
	src := &fakeSource{candidates: []Candidate{busy, free}}
	sel := NewSelector(src)
	region := "Mumbai"

	got, err := sel.Select(context.Background(), &region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != free.ID {
		t.Errorf("selected %+v, want the candidate with 1 open lead", got)
	}
}

func TestSelectTieGoesToEarliestAccount(t *testing.T) {
	now := time.Now()
	junior := candidate(2, now)
	senior := candidate(2, now.Add(-365*24*time.Hour))
	src := &fakeSource{candidates: []Candidate{junior, senior}}
	sel := NewSelector(src)
	region := "Delhi"

	got, err := sel.Select(context.Background(), &region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != senior.ID {
		t.Errorf("selected %+v, want the earliest-created candidate", got)
	}
}

func TestSelectSingleCandidateRegardlessOfLoad(t *testing.T) {
	only := candidate(99, time.Now())
	src := &fakeSource{candidates: []Candidate{only}}
	sel := NewSelector(src)
	region := "Bengaluru"

	got, err := sel.Select(context.Background(), &region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != only.ID {
		t.Errorf("selected %+v, want the only candidate", got)
	}
}

func TestSelectPropagatesSourceError(t *testing.T) {
	wantErr := errors.New("connection reset")
	src := &fakeSource{err: wantErr}
	sel := NewSelector(src)
	region := "Mumbai"

	got, err := sel.Select(context.Background(), &region)
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
	if got != nil {
		t.Errorf("selected %v alongside an error", got.ID)
	}
}
