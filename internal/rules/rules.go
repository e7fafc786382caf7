// Package rules decides which dates, times and student/purpose
// combinations may be booked. Validators fail fast: the first violated
// rule wins and its reason is surfaced to the guardian verbatim.
package rules

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
)

// Result is a recoverable, user-facing validation outcome. It is never
// an error: invalid input is a normal answer, not a fault.
type Result struct {
	Valid  bool
	Reason string
}

var valid = Result{Valid: true}

func Invalid(reason string) Result { return Result{Reason: reason} }

const (
	minSentences  = 2
	minPurposeLen = 20
)

// Window holds the booking-window knobs. Defaults mirror the school's
// policy: book from tomorrow up to 30 days out, mornings 07:30-11:00,
// Fridays and Saturdays closed.
type Window struct {
	LeadDays        int
	HorizonDays     int
	BlockedWeekdays []time.Weekday
	Open            models.TimeOfDay
	Close           models.TimeOfDay
	SlotStepMinutes int
}

func DefaultWindow() Window {
	return Window{
		LeadDays:        1,
		HorizonDays:     30,
		BlockedWeekdays: []time.Weekday{time.Friday, time.Saturday},
		Open:            models.TimeOfDay{Hour: 7, Minute: 30},
		Close:           models.TimeOfDay{Hour: 11},
		SlotStepMinutes: 30,
	}
}

// Eligibility is the slice of the appointment store the engine needs.
type Eligibility interface {
	HasActiveAppointment(studentID string) bool
	HasAppointmentThisWeek(studentID string) bool
}

// Directory resolves student ids to names for the quota messages.
type Directory interface {
	StudentByID(id string) (models.Student, bool)
}

type Engine struct {
	now          func() time.Time
	win          Window
	appointments Eligibility
	students     Directory
}

func NewEngine(now func() time.Time, win Window, appointments Eligibility, students Directory) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now, win: win, appointments: appointments, students: students}
}

func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) today() time.Time {
	t := e.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateAvailable rejects same-day and past dates, dates beyond the
// horizon, and the weekly blocked days.
func (e *Engine) DateAvailable(date time.Time) Result {
	today := e.today()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, today.Location())

	if !day.After(today) {
		return Invalid("Same-day bookings are not allowed. Please select a future date.")
	}
	if day.After(today.AddDate(0, 0, e.win.HorizonDays)) {
		return Invalid(fmt.Sprintf("Appointments can only be scheduled up to %d days in advance.", e.win.HorizonDays))
	}
	for _, wd := range e.win.BlockedWeekdays {
		if day.Weekday() == wd {
			return Invalid(fmt.Sprintf("Appointments are not available on %ss.", wd))
		}
	}
	return valid
}

// MinimumDate is the earliest bookable day at local midnight.
func (e *Engine) MinimumDate() time.Time {
	return e.today().AddDate(0, 0, e.win.LeadDays)
}

// MaximumDate is the latest bookable day at local midnight.
func (e *Engine) MaximumDate() time.Time {
	return e.today().AddDate(0, 0, e.win.HorizonDays)
}

func (e *Engine) TimeAvailable(t models.TimeOfDay) Result {
	m := t.Minutes()
	if m < e.win.Open.Minutes() {
		return Invalid(fmt.Sprintf("Appointments are available from %s. Please select a later time.", e.win.Open.Clock()))
	}
	if m >= e.win.Close.Minutes() {
		return Invalid(fmt.Sprintf("Appointments are only available until %s. Please select an earlier time.", e.win.Close.Clock()))
	}
	return valid
}

// TimeSlots yields the offerable slot starts, earliest first. A slot
// must fit entirely before closing time. The sequence is restartable:
// each range over it starts from the opening slot again.
func (e *Engine) TimeSlots() iter.Seq[models.TimeOfDay] {
	return func(yield func(models.TimeOfDay) bool) {
		step := e.win.SlotStepMinutes
		for m := e.win.Open.Minutes(); m+step <= e.win.Close.Minutes(); m += step {
			if !yield(models.TimeOfDayFromMinutes(m)) {
				return
			}
		}
	}
}

// CanCreateAppointment checks the per-student booking quota: no second
// request while one is active, and at most one submission per calendar
// week. The active check runs first.
func (e *Engine) CanCreateAppointment(studentID string) Result {
	if e.appointments.HasActiveAppointment(studentID) {
		st, ok := e.students.StudentByID(studentID)
		if !ok {
			return Invalid("This student already has an active appointment request.")
		}
		return Invalid(fmt.Sprintf("%s already has an active appointment request. Please wait until the current request is resolved.", st.Name))
	}
	if e.appointments.HasAppointmentThisWeek(studentID) {
		st, ok := e.students.StudentByID(studentID)
		if !ok {
			return Invalid("You've already scheduled an appointment for this student this week.")
		}
		return Invalid(fmt.Sprintf("You've already scheduled an appointment for %s this week. Only one appointment per student is allowed per calendar week.", st.Name))
	}
	return valid
}

// ValidatePurpose wants a non-empty description of at least two
// sentences and twenty characters.
func (e *Engine) ValidatePurpose(purpose string) Result {
	trimmed := strings.TrimSpace(purpose)
	if trimmed == "" {
		return Invalid("Please describe the purpose of your meeting.")
	}
	if SentenceCount(trimmed) < minSentences {
		return Invalid(fmt.Sprintf("Please provide at least %d complete sentences describing the purpose of your meeting.", minSentences))
	}
	if len([]rune(trimmed)) < minPurposeLen {
		return Invalid(fmt.Sprintf("Please provide more detail about the purpose of your meeting (minimum %d characters).", minPurposeLen))
	}
	return valid
}

// SentenceCount tallies sentence-terminating characters. It is a
// character count, not real segmentation: "Wait... really?!" counts 5.
func SentenceCount(text string) int {
	n := 0
	for _, r := range strings.TrimSpace(text) {
		if r == '.' || r == '!' || r == '?' {
			n++
		}
	}
	return n
}

// Submission carries everything the guardian picked. Nil pointers and
// zero enum values mean "not selected yet".
type Submission struct {
	StudentID        string
	RepresentativeID string
	Date             *time.Time
	Time             *models.TimeOfDay
	Duration         models.AppointmentDuration
	Category         models.AppointmentCategory
	Purpose          string
}

// ValidateAppointment is the single gate run at submission time. Rule
// order is fixed; the first failure is returned.
func (e *Engine) ValidateAppointment(sub Submission) Result {
	if res := e.CanCreateAppointment(sub.StudentID); !res.Valid {
		return res
	}
	if sub.RepresentativeID == "" {
		return Invalid("Please select a school representative.")
	}
	if sub.Date == nil {
		return Invalid("Please select a date for your appointment.")
	}
	if res := e.DateAvailable(*sub.Date); !res.Valid {
		return res
	}
	if sub.Time == nil {
		return Invalid("Please select a time for your appointment.")
	}
	if res := e.TimeAvailable(*sub.Time); !res.Valid {
		return res
	}
	if sub.Duration == 0 {
		return Invalid("Please select a duration for your appointment.")
	}
	if sub.Category == "" {
		return Invalid("Please select a category for your appointment.")
	}
	return e.ValidatePurpose(sub.Purpose)
}
