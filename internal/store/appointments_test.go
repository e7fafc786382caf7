package store

import (
	"testing"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
)

// Wednesday 2025-06-04; the Sunday-based week is Jun 1 – Jun 7.
var testNow = time.Date(2025, 6, 4, 12, 0, 0, 0, time.Local)

func newTestStore() *Appointments {
	return NewWithClock(func() time.Time { return testNow })
}

func req(id, studentID string, status models.AppointmentStatus, createdAt time.Time) models.AppointmentRequest {
	return models.AppointmentRequest{
		ID:        id,
		StudentID: studentID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestActiveAppointment(t *testing.T) {
	s := newTestStore()
	s.Add(req("a1", "s1", models.StatusCancelled, testNow.AddDate(0, -1, 0)))
	s.Add(req("a2", "s1", models.StatusApproved, testNow.AddDate(0, 0, -10)))
	s.Add(req("a3", "s2", models.StatusPending, testNow))

	got, ok := s.ActiveAppointment("s1")
	if !ok || got.ID != "a2" {
		t.Fatalf("got %v ok=%v, want a2", got.ID, ok)
	}
	if _, ok := s.ActiveAppointment("s3"); ok {
		t.Fatal("unknown student must have no active appointment")
	}
}

func TestActiveAppointmentFirstByInsertionOrder(t *testing.T) {
	// the booking rules keep a student to one active request, but the
	// query must not depend on that
	s := newTestStore()
	s.Add(req("a1", "s1", models.StatusPending, testNow))
	s.Add(req("a2", "s1", models.StatusApproved, testNow))

	got, _ := s.ActiveAppointment("s1")
	if got.ID != "a1" {
		t.Fatalf("got %v, want first inserted a1", got.ID)
	}
}

func TestEligibilityClearsWhenResolved(t *testing.T) {
	s := newTestStore()
	s.Add(req("a1", "s1", models.StatusPending, testNow.AddDate(0, 0, -30)))

	if !s.HasActiveAppointment("s1") {
		t.Fatal("pending request must count as active")
	}
	if _, ok := s.UpdateStatus("a1", models.StatusRejected); !ok {
		t.Fatal("update failed")
	}
	if s.HasActiveAppointment("s1") {
		t.Fatal("rejected request must not count as active")
	}
}

func TestAppointmentsThisWeek(t *testing.T) {
	s := newTestStore()
	weekStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local) // Sunday

	s.Add(req("before", "s1", models.StatusCancelled, weekStart.Add(-time.Hour)))
	s.Add(req("boundary", "s1", models.StatusCancelled, weekStart))
	s.Add(req("mid", "s1", models.StatusCompleted, testNow.Add(-time.Hour)))
	s.Add(req("next", "s1", models.StatusPending, weekStart.AddDate(0, 0, 7)))
	s.Add(req("other", "s2", models.StatusPending, testNow))

	got := s.AppointmentsThisWeek("s1")
	if len(got) != 2 {
		t.Fatalf("got %d requests, want 2 (boundary, mid): %+v", len(got), got)
	}
	for _, r := range got {
		if r.ID != "boundary" && r.ID != "mid" {
			t.Errorf("unexpected request %q in week window", r.ID)
		}
	}
	// status does not matter for the weekly quota, only createdAt
	if !s.HasAppointmentThisWeek("s1") {
		t.Fatal("want weekly quota hit")
	}
}

func TestAllAppointmentsSortedByCreatedAtDesc(t *testing.T) {
	s := newTestStore()
	s.Add(req("old", "s1", models.StatusPending, testNow.AddDate(0, 0, -3)))
	s.Add(req("new", "s2", models.StatusPending, testNow))
	s.Add(req("mid", "s3", models.StatusPending, testNow.AddDate(0, 0, -1)))

	got := s.AllAppointments()
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestUpdateStatusRefreshesUpdatedAt(t *testing.T) {
	s := newTestStore()
	created := testNow.AddDate(0, 0, -2)
	s.Add(req("a1", "s1", models.StatusPending, created))

	got, ok := s.UpdateStatus("a1", models.StatusApproved)
	if !ok {
		t.Fatal("update failed")
	}
	if got.Status != models.StatusApproved {
		t.Errorf("status = %v", got.Status)
	}
	if !got.UpdatedAt.Equal(testNow) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, testNow)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt must not change, got %v", got.CreatedAt)
	}

	if _, ok := s.UpdateStatus("missing", models.StatusApproved); ok {
		t.Fatal("unknown id must report ok=false")
	}
}

func TestActiveOnDate(t *testing.T) {
	s := newTestStore()
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	a := req("a1", "s1", models.StatusApproved, testNow)
	a.Date = day
	s.Add(a)
	b := req("a2", "s2", models.StatusCancelled, testNow)
	b.Date = day
	s.Add(b)
	c := req("a3", "s3", models.StatusPending, testNow)
	c.Date = day.AddDate(0, 0, 1)
	s.Add(c)

	got := s.ActiveOnDate(day)
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("got %+v, want just a1", got)
	}
}

func TestWeekStartIsSundayBased(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2025, 6, 1, 5, 0, 0, 0, time.Local), time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},  // Sunday
		{time.Date(2025, 6, 4, 23, 0, 0, 0, time.Local), time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)}, // Wednesday
		{time.Date(2025, 6, 7, 0, 0, 0, 0, time.Local), time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},  // Saturday
		{time.Date(2025, 6, 8, 0, 0, 0, 0, time.Local), time.Date(2025, 6, 8, 0, 0, 0, 0, time.Local)},  // next Sunday
	}
	for _, tc := range cases {
		if got := weekStart(tc.in); !got.Equal(tc.want) {
			t.Errorf("weekStart(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
