// Package store keeps the appointment requests for the process
// lifetime. Append-only except for in-place status changes; no
// deletion.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
)

type Appointments struct {
	mu    sync.Mutex
	items []models.AppointmentRequest
	now   func() time.Time
}

func New() *Appointments {
	return NewWithClock(time.Now)
}

// NewWithClock pins "now" for the weekly-quota window; tests use it.
func NewWithClock(now func() time.Time) *Appointments {
	return &Appointments{now: now}
}

func (s *Appointments) Add(req models.AppointmentRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, req)
}

func (s *Appointments) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Appointments) ByID(id string) (models.AppointmentRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return models.AppointmentRequest{}, false
}

// ActiveAppointment returns the first active (pending or approved)
// request for the student, by insertion order. The booking rules keep
// at most one, but the query does not rely on that.
func (s *Appointments) ActiveAppointment(studentID string) (models.AppointmentRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.StudentID == studentID && a.Status.Active() {
			return a, true
		}
	}
	return models.AppointmentRequest{}, false
}

func (s *Appointments) HasActiveAppointment(studentID string) bool {
	_, ok := s.ActiveAppointment(studentID)
	return ok
}

// AppointmentsThisWeek returns the student's requests created within
// the current Sunday-based calendar week. The window is computed from
// "now", not from the appointment's own date: the quota limits
// submissions per week, not meetings per week.
func (s *Appointments) AppointmentsThisWeek(studentID string) []models.AppointmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := weekStart(s.now())
	end := start.AddDate(0, 0, 7)

	var out []models.AppointmentRequest
	for _, a := range s.items {
		if a.StudentID != studentID {
			continue
		}
		if !a.CreatedAt.Before(start) && a.CreatedAt.Before(end) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Appointments) HasAppointmentThisWeek(studentID string) bool {
	return len(s.AppointmentsThisWeek(studentID)) > 0
}

func (s *Appointments) Appointments(studentID string) []models.AppointmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AppointmentRequest
	for _, a := range s.items {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out
}

// AllAppointments returns every request, most recent submission first.
func (s *Appointments) AllAppointments() []models.AppointmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AppointmentRequest, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ActiveOnDate returns active requests scheduled for the given
// calendar day; the reminder job sweeps with it.
func (s *Appointments) ActiveOnDate(day time.Time) []models.AppointmentRequest {
	y, m, d := day.Date()
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AppointmentRequest
	for _, a := range s.items {
		ay, am, ad := a.Date.Date()
		if a.Status.Active() && ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}

// UpdateStatus changes the status of an existing request and refreshes
// its UpdatedAt. Returns the updated request, or ok=false for an
// unknown id.
func (s *Appointments) UpdateStatus(id string, status models.AppointmentStatus) (models.AppointmentRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			s.items[i].UpdatedAt = s.now()
			return s.items[i], true
		}
	}
	return models.AppointmentRequest{}, false
}

// weekStart is the Sunday midnight opening the calendar week of t.
func weekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
