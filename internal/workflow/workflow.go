// Package workflow drives the guarded booking wizard. One Flow exists
// per open wizard; all mutation happens from its owning chat handler,
// so the Flow itself is not locked.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/rules"
)

type Step int

const (
	StepRepresentative Step = iota
	StepDateTime
	StepCategory
	StepPurpose
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepRepresentative:
		return "representative"
	case StepDateTime:
		return "datetime"
	case StepCategory:
		return "category"
	case StepPurpose:
		return "purpose"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Selections accumulates the guardian's choices. Back navigation never
// clears them; a value survives until overwritten.
type Selections struct {
	Representative *models.SchoolRepresentative
	Date           *time.Time
	Time           *models.TimeOfDay
	Duration       models.AppointmentDuration
	Category       models.AppointmentCategory
	Purpose        string
}

// Repository is the commit target on successful submission.
type Repository interface {
	Add(models.AppointmentRequest)
}

// Notifier is told about a committed request. It runs after the commit
// and its outcome does not affect the booking.
type Notifier interface {
	AppointmentSubmitted(ctx context.Context, req models.AppointmentRequest)
}

// Outcome is what a forward transition produced. Created is non-nil
// only when the terminal step submitted successfully.
type Outcome struct {
	Result  rules.Result
	Created *models.AppointmentRequest
}

type Flow struct {
	student    models.Student
	step       Step
	sel        Selections
	submitting bool
	done       bool

	engine   *rules.Engine
	repo     Repository
	notifier Notifier
}

// Start opens a wizard for the chosen student. The student eligibility
// gate runs here: an ineligible student gets no flow, only the reason.
func Start(student models.Student, engine *rules.Engine, repo Repository, notifier Notifier) (*Flow, rules.Result) {
	if res := engine.CanCreateAppointment(student.ID); !res.Valid {
		return nil, res
	}
	return &Flow{
		student:  student,
		step:     StepRepresentative,
		engine:   engine,
		repo:     repo,
		notifier: notifier,
	}, rules.Result{Valid: true}
}

func (f *Flow) Student() models.Student { return f.student }
func (f *Flow) Step() Step              { return f.step }
func (f *Flow) Selections() Selections  { return f.sel }
func (f *Flow) Done() bool              { return f.done }

func (f *Flow) SelectRepresentative(rep models.SchoolRepresentative) {
	f.sel.Representative = &rep
}

func (f *Flow) SelectDate(date time.Time) {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	f.sel.Date = &d
}

func (f *Flow) SelectTime(t models.TimeOfDay) {
	f.sel.Time = &t
}

func (f *Flow) SelectDuration(d models.AppointmentDuration) {
	f.sel.Duration = d
}

func (f *Flow) SelectCategory(c models.AppointmentCategory) {
	f.sel.Category = c
}

func (f *Flow) SetPurpose(p string) {
	f.sel.Purpose = p
}

// canAdvance is the forward guard of the current step.
func (f *Flow) canAdvance() rules.Result {
	switch f.step {
	case StepRepresentative:
		if f.sel.Representative == nil {
			return rules.Invalid("Please select a school representative.")
		}
	case StepDateTime:
		if f.sel.Date == nil {
			return rules.Invalid("Please select a date for your appointment.")
		}
		if res := f.engine.DateAvailable(*f.sel.Date); !res.Valid {
			return res
		}
		if f.sel.Time == nil {
			return rules.Invalid("Please select a time for your appointment.")
		}
		if res := f.engine.TimeAvailable(*f.sel.Time); !res.Valid {
			return res
		}
	case StepCategory:
		if f.sel.Category == "" {
			return rules.Invalid("Please select a category for your appointment.")
		}
	case StepPurpose:
		return f.engine.ValidatePurpose(f.sel.Purpose)
	case StepConfirm:
		if f.submitting {
			return rules.Invalid("Your appointment is being submitted. Please wait.")
		}
	}
	return rules.Result{Valid: true}
}

// Forward advances the wizard. On a guard failure the step does not
// change and the reason is returned. From the terminal step it submits.
func (f *Flow) Forward(ctx context.Context) Outcome {
	if f.done {
		return Outcome{Result: rules.Invalid("This booking was already submitted.")}
	}
	if res := f.canAdvance(); !res.Valid {
		return Outcome{Result: res}
	}
	if f.step < StepConfirm {
		f.step++
		return Outcome{Result: rules.Result{Valid: true}}
	}
	return f.submit(ctx)
}

// Back returns to the previous step without re-validation; earlier
// choices are still in place. No-op on the first step.
func (f *Flow) Back() {
	if f.step > StepRepresentative {
		f.step--
	}
}

// submit re-runs the full validation before committing: the wizard may
// have been open long enough for the chosen date to slip out of the
// window.
func (f *Flow) submit(ctx context.Context) Outcome {
	if f.sel.Representative == nil || f.sel.Date == nil || f.sel.Time == nil ||
		f.sel.Duration == 0 || f.sel.Category == "" {
		return Outcome{Result: rules.Invalid("Please complete all required fields.")}
	}

	f.submitting = true
	defer func() { f.submitting = false }()

	res := f.engine.ValidateAppointment(rules.Submission{
		StudentID:        f.student.ID,
		RepresentativeID: f.sel.Representative.ID,
		Date:             f.sel.Date,
		Time:             f.sel.Time,
		Duration:         f.sel.Duration,
		Category:         f.sel.Category,
		Purpose:          f.sel.Purpose,
	})
	if !res.Valid {
		return Outcome{Result: res}
	}

	// The commit is all-or-nothing: a torn-down context before this
	// point leaves the repository untouched.
	if err := ctx.Err(); err != nil {
		return Outcome{Result: rules.Invalid("Submission was interrupted. Please try again.")}
	}

	now := f.engine.Now()
	req := models.AppointmentRequest{
		ID:               uuid.NewString(),
		StudentID:        f.student.ID,
		RepresentativeID: f.sel.Representative.ID,
		Date:             *f.sel.Date,
		Time:             *f.sel.Time,
		Duration:         f.sel.Duration,
		Category:         f.sel.Category,
		Purpose:          f.sel.Purpose,
		Status:           models.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,

		StudentName:         f.student.Name,
		RepresentativeName:  f.sel.Representative.Name,
		RepresentativeTitle: f.sel.Representative.Title,
		SchoolName:          f.student.SchoolName,
	}
	f.repo.Add(req)
	f.done = true

	if f.notifier != nil {
		f.notifier.AppointmentSubmitted(ctx, req)
	}
	return Outcome{Result: rules.Result{Valid: true}, Created: &req}
}
