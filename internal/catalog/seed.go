package catalog

import "github.com/parentconnect/appointment-bot/internal/models"

// Seed returns the demo catalog used until a real school directory
// feed is wired in.
func Seed() *Catalog {
	schools := []models.School{
		{ID: "school_1", Name: "Al Noor International School", Address: "123 Education Street, City Center"},
		{ID: "school_2", Name: "Emirates Academy", Address: "456 Learning Avenue, Business Bay"},
	}

	students := []models.Student{
		{ID: "student_1", Name: "Ahmed Abdullah", Grade: "Grade 5", SchoolID: "school_1", SchoolName: "Al Noor International School"},
		{ID: "student_2", Name: "Fatima Abdullah", Grade: "Grade 3", SchoolID: "school_1", SchoolName: "Al Noor International School"},
		{ID: "student_3", Name: "Omar Abdullah", Grade: "Grade 7", SchoolID: "school_2", SchoolName: "Emirates Academy"},
	}

	representatives := []models.SchoolRepresentative{
		{ID: "rep_1", Name: "Dr. Sarah Hassan", Title: models.Principal, SchoolID: "school_1", Email: "s.hassan@alnoor.edu"},
		{ID: "rep_2", Name: "Mr. Khalid Ahmed", Title: models.VicePrincipal, SchoolID: "school_1", Email: "k.ahmed@alnoor.edu"},
		{ID: "rep_3", Name: "Ms. Layla Ibrahim", Title: models.VicePrincipal, SchoolID: "school_1", Email: "l.ibrahim@alnoor.edu"},
		{ID: "rep_4", Name: "Mr. Hassan Ali", Title: models.StudentAdvisor, SchoolID: "school_1", Email: "h.ali@alnoor.edu"},
		{ID: "rep_5", Name: "Ms. Nadia Mohammed", Title: models.StudentAdvisor, SchoolID: "school_1", Email: "n.mohammed@alnoor.edu"},
		{ID: "rep_6", Name: "Dr. Mohammed Rashid", Title: models.Principal, SchoolID: "school_2", Email: "m.rashid@emirates.edu"},
		{ID: "rep_7", Name: "Ms. Aisha Khalifa", Title: models.VicePrincipal, SchoolID: "school_2", Email: "a.khalifa@emirates.edu"},
		{ID: "rep_8", Name: "Mr. Yusuf Nasser", Title: models.VicePrincipal, SchoolID: "school_2", Email: "y.nasser@emirates.edu"},
		{ID: "rep_9", Name: "Ms. Maryam Sultan", Title: models.StudentAdvisor, SchoolID: "school_2", Email: "m.sultan@emirates.edu"},
		{ID: "rep_10", Name: "Mr. Faisal Abdullah", Title: models.StudentAdvisor, SchoolID: "school_2", Email: "f.abdullah@emirates.edu"},
	}

	guardian := models.Parent{
		ID:          "parent_1",
		Name:        "Allia Abdullah",
		Email:       "allia.abdullah@email.com",
		PhoneNumber: "+1005846588",
		StudentIDs:  []string{"student_1", "student_2", "student_3"},
	}

	return New(schools, students, representatives, guardian)
}
