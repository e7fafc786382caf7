// Package catalog holds the static reference data: schools, students,
// representatives and the guardian profile. Lookups that miss return
// ok=false, never an error.
package catalog

import (
	"slices"

	"github.com/parentconnect/appointment-bot/internal/models"
)

type Catalog struct {
	schools         []models.School
	students        []models.Student
	representatives []models.SchoolRepresentative
	guardian        models.Parent
}

func New(schools []models.School, students []models.Student, reps []models.SchoolRepresentative, guardian models.Parent) *Catalog {
	return &Catalog{
		schools:         schools,
		students:        students,
		representatives: reps,
		guardian:        guardian,
	}
}

func (c *Catalog) Guardian() models.Parent { return c.guardian }

func (c *Catalog) SchoolByID(id string) (models.School, bool) {
	for _, s := range c.schools {
		if s.ID == id {
			return s, true
		}
	}
	return models.School{}, false
}

func (c *Catalog) StudentByID(id string) (models.Student, bool) {
	for _, s := range c.students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

func (c *Catalog) RepresentativeByID(id string) (models.SchoolRepresentative, bool) {
	for _, r := range c.representatives {
		if r.ID == id {
			return r, true
		}
	}
	return models.SchoolRepresentative{}, false
}

// Students returns the guardian's children, in catalog order.
func (c *Catalog) Students() []models.Student {
	out := make([]models.Student, 0, len(c.guardian.StudentIDs))
	for _, id := range c.guardian.StudentIDs {
		if s, ok := c.StudentByID(id); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) RepresentativesBySchool(schoolID string) []models.SchoolRepresentative {
	var out []models.SchoolRepresentative
	for _, r := range c.representatives {
		if r.SchoolID == schoolID {
			out = append(out, r)
		}
	}
	return out
}

// StudentsBySchoolName groups the guardian's children by school for the
// selection screen. Keys sorted separately by the caller if needed.
func (c *Catalog) StudentsBySchoolName() map[string][]models.Student {
	grouped := make(map[string][]models.Student)
	for _, s := range c.Students() {
		grouped[s.SchoolName] = append(grouped[s.SchoolName], s)
	}
	return grouped
}

// SchoolNames returns the distinct school names of the guardian's
// children, in first-seen order.
func (c *Catalog) SchoolNames() []string {
	var names []string
	for _, s := range c.Students() {
		if !slices.Contains(names, s.SchoolName) {
			names = append(names, s.SchoolName)
		}
	}
	return names
}
