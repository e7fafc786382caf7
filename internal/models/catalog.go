package models

type School struct {
	ID      string
	Name    string
	Address string
}

type Student struct {
	ID         string
	Name       string
	Grade      string
	SchoolID   string
	SchoolName string
}

type RepresentativeTitle string

const (
	Principal      RepresentativeTitle = "principal"
	VicePrincipal  RepresentativeTitle = "vice_principal"
	StudentAdvisor RepresentativeTitle = "student_advisor"
)

func (t RepresentativeTitle) DisplayName() string {
	switch t {
	case Principal:
		return "Principal"
	case VicePrincipal:
		return "Vice Principal"
	case StudentAdvisor:
		return "Student Advisor"
	default:
		return string(t)
	}
}

type SchoolRepresentative struct {
	ID       string
	Name     string
	Title    RepresentativeTitle
	SchoolID string
	Email    string
}

// Parent is the guardian profile that owns the bot session.
type Parent struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	StudentIDs  []string
}
