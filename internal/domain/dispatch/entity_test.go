package dispatch

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTransitionStampsTargetState(t *testing.T) {
	d := &Dispatch{Status: StatusPending}

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d.Transition(StatusNotified, t1)

	if d.Status != StatusNotified {
		t.Fatalf("status = %s, want notified", d.Status)
	}
	if !d.NotifiedAt.Valid || !d.NotifiedAt.Time.Equal(t1) {
		t.Fatalf("notified_at = %+v, want %v", d.NotifiedAt, t1)
	}
	if d.AcknowledgedAt.Valid || d.DismissedAt.Valid {
		t.Fatal("unrelated stamps set")
	}
}

func TestTransitionNeverRevertsPriorStamps(t *testing.T) {
	d := &Dispatch{Status: StatusPending}

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	d.Transition(StatusNotified, t1)
	d.Transition(StatusDismissed, t2)
	// Re-opening a dismissed dispatch is allowed; there is no guard.
	d.Transition(StatusNotified, t3)

	if !d.NotifiedAt.Time.Equal(t3) {
		t.Errorf("notified_at = %v, want re-stamped %v", d.NotifiedAt.Time, t3)
	}
	if !d.DismissedAt.Valid || !d.DismissedAt.Time.Equal(t2) {
		t.Errorf("dismissed_at = %+v, want untouched %v", d.DismissedAt, t2)
	}
}

func TestAllStatusesMutuallyReachable(t *testing.T) {
	all := []Status{StatusPending, StatusNotified, StatusAcknowledged, StatusDismissed}
	now := time.Now()

	for _, from := range all {
		for _, to := range all {
			d := &Dispatch{Status: from}
			d.Transition(to, now)
			if d.Status != to {
				t.Errorf("transition %s -> %s not applied", from, to)
			}
		}
	}
}

func TestApplyUpdateLatestActorWins(t *testing.T) {
	d := &Dispatch{Status: StatusPending}

	first := uuid.New()
	second := uuid.New()
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	d.ApplyUpdate(StatusNotified, nil, first, t1)
	d.ApplyUpdate(StatusAcknowledged, nil, second, t1.Add(time.Hour))

	if !d.CreatedBy.Valid || d.CreatedBy.UUID != second {
		t.Fatalf("created_by = %+v, want latest actor %s", d.CreatedBy, second)
	}
	if !d.NotifiedAt.Valid || !d.AcknowledgedAt.Valid {
		t.Fatal("stamps missing after sequential updates")
	}
}

func TestApplyUpdateKeepsNotesAndActorWhenAbsent(t *testing.T) {
	actor := uuid.New()
	d := &Dispatch{Status: StatusPending}
	now := time.Now()

	notes := "contacted on-call crew"
	d.ApplyUpdate(StatusNotified, &notes, actor, now)
	d.ApplyUpdate(StatusAcknowledged, nil, uuid.Nil, now.Add(time.Minute))

	if !d.Notes.Valid || d.Notes.String != notes {
		t.Errorf("notes = %+v, want preserved %q", d.Notes, notes)
	}
	if !d.CreatedBy.Valid || d.CreatedBy.UUID != actor {
		t.Errorf("created_by = %+v, want preserved %s", d.CreatedBy, actor)
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(StatusAcknowledged) {
		t.Error("acknowledged rejected")
	}
	if ValidStatus(Status("resolved")) {
		t.Error("unknown status accepted")
	}
}
