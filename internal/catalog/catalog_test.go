package catalog

import (
	"testing"

	"github.com/parentconnect/appointment-bot/internal/models"
)

func TestLookups(t *testing.T) {
	c := Seed()

	st, ok := c.StudentByID("student_1")
	if !ok || st.Name != "Ahmed Abdullah" {
		t.Fatalf("StudentByID = %+v ok=%v", st, ok)
	}
	if _, ok := c.StudentByID("nope"); ok {
		t.Fatal("unknown student must miss, not error")
	}

	rep, ok := c.RepresentativeByID("rep_6")
	if !ok || rep.Title != models.Principal || rep.SchoolID != "school_2" {
		t.Fatalf("RepresentativeByID = %+v ok=%v", rep, ok)
	}

	sc, ok := c.SchoolByID("school_1")
	if !ok || sc.Name != "Al Noor International School" {
		t.Fatalf("SchoolByID = %+v ok=%v", sc, ok)
	}
	if _, ok := c.SchoolByID(""); ok {
		t.Fatal("empty id must miss")
	}
}

func TestRepresentativesBySchool(t *testing.T) {
	c := Seed()
	for _, schoolID := range []string{"school_1", "school_2"} {
		reps := c.RepresentativesBySchool(schoolID)
		if len(reps) != 5 {
			t.Errorf("school %s has %d representatives, want 5", schoolID, len(reps))
		}
		for _, r := range reps {
			if r.SchoolID != schoolID {
				t.Errorf("representative %s leaked into %s", r.ID, schoolID)
			}
		}
	}
	if reps := c.RepresentativesBySchool("school_x"); len(reps) != 0 {
		t.Errorf("unknown school returned %d representatives", len(reps))
	}
}

func TestGuardianStudents(t *testing.T) {
	c := Seed()

	students := c.Students()
	if len(students) != 3 {
		t.Fatalf("got %d students, want 3", len(students))
	}
	// catalog order follows the guardian's StudentIDs
	if students[0].ID != "student_1" || students[2].ID != "student_3" {
		t.Errorf("unexpected order: %v", students)
	}

	grouped := c.StudentsBySchoolName()
	if len(grouped["Al Noor International School"]) != 2 {
		t.Errorf("Al Noor group = %v", grouped["Al Noor International School"])
	}
	if len(grouped["Emirates Academy"]) != 1 {
		t.Errorf("Emirates group = %v", grouped["Emirates Academy"])
	}

	names := c.SchoolNames()
	if len(names) != 2 || names[0] != "Al Noor International School" {
		t.Errorf("SchoolNames = %v", names)
	}
}
