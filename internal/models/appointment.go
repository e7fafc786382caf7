package models

import "time"

type AppointmentCategory string

const (
	CategoryAcademicPerformance AppointmentCategory = "academic_performance"
	CategoryStudentBehavior     AppointmentCategory = "student_behavior"
	CategoryAbsences            AppointmentCategory = "absences"
	CategoryAdvisory            AppointmentCategory = "advisory"
	CategoryGrievance           AppointmentCategory = "grievance"
	CategoryOther               AppointmentCategory = "other"
)

// Categories returns the closed set, in menu order.
func Categories() []AppointmentCategory {
	return []AppointmentCategory{
		CategoryAcademicPerformance,
		CategoryStudentBehavior,
		CategoryAbsences,
		CategoryAdvisory,
		CategoryGrievance,
		CategoryOther,
	}
}

func (c AppointmentCategory) DisplayName() string {
	switch c {
	case CategoryAcademicPerformance:
		return "Academic Performance"
	case CategoryStudentBehavior:
		return "Student Behavior"
	case CategoryAbsences:
		return "Absences"
	case CategoryAdvisory:
		return "Advisory"
	case CategoryGrievance:
		return "Grievance"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

func (c AppointmentCategory) Description() string {
	switch c {
	case CategoryAcademicPerformance:
		return "Discuss grades, coursework, and academic progress"
	case CategoryStudentBehavior:
		return "Address behavioral concerns or achievements"
	case CategoryAbsences:
		return "Discuss attendance issues or planned absences"
	case CategoryAdvisory:
		return "General guidance and counseling"
	case CategoryGrievance:
		return "Report complaints or concerns"
	case CategoryOther:
		return "Other topics not listed above"
	default:
		return ""
	}
}

// AppointmentDuration is the meeting length in minutes.
type AppointmentDuration int

const (
	Duration10 AppointmentDuration = 10
	Duration15 AppointmentDuration = 15
	Duration20 AppointmentDuration = 20
	Duration30 AppointmentDuration = 30
)

func Durations() []AppointmentDuration {
	return []AppointmentDuration{Duration10, Duration15, Duration20, Duration30}
}

func (d AppointmentDuration) Minutes() int { return int(d) }

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Active reports whether the request still blocks a new booking
// for the same student.
func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

func (s AppointmentStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// AppointmentRequest is a guardian's submitted meeting request.
// Date is a calendar day (local midnight); Time is the time of day.
// The *Name fields are snapshots taken at creation and never track
// later catalog changes.
type AppointmentRequest struct {
	ID               string
	StudentID        string
	RepresentativeID string
	Date             time.Time
	Time             TimeOfDay
	Duration         AppointmentDuration
	Category         AppointmentCategory
	Purpose          string
	Status           AppointmentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time

	StudentName         string
	RepresentativeName  string
	RepresentativeTitle RepresentativeTitle
	SchoolName          string
}
