package rules

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
)

// Monday 2025-06-02, 09:00 local. The week runs Sun Jun 1 – Sat Jun 7;
// Friday is Jun 6, Saturday Jun 7.
var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

type fakeEligibility struct {
	active map[string]bool
	weekly map[string]bool
}

func (f fakeEligibility) HasActiveAppointment(id string) bool   { return f.active[id] }
func (f fakeEligibility) HasAppointmentThisWeek(id string) bool { return f.weekly[id] }

type fakeDirectory map[string]models.Student

func (f fakeDirectory) StudentByID(id string) (models.Student, bool) {
	s, ok := f[id]
	return s, ok
}

func newTestEngine(elig fakeEligibility, dir fakeDirectory) *Engine {
	if dir == nil {
		dir = fakeDirectory{}
	}
	return NewEngine(func() time.Time { return testNow }, DefaultWindow(), elig, dir)
}

func TestDateAvailable(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)

	cases := []struct {
		name    string
		date    time.Time
		valid   bool
		wantSub string
	}{
		{"tomorrow", testNow.AddDate(0, 0, 1), true, ""},
		{"today", testNow, false, "Same-day"},
		{"yesterday", testNow.AddDate(0, 0, -1), false, "Same-day"},
		{"thirty days out", testNow.AddDate(0, 0, 30), true, ""}, // Wed Jul 2
		{"thirty one days out", testNow.AddDate(0, 0, 31), false, "30 days"},
		{"friday", time.Date(2025, 6, 6, 0, 0, 0, 0, time.Local), false, "Fridays"},
		{"saturday", time.Date(2025, 6, 7, 0, 0, 0, 0, time.Local), false, "Saturdays"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.DateAvailable(tc.date)
			if res.Valid != tc.valid {
				t.Fatalf("DateAvailable(%v) valid = %v, want %v (%q)", tc.date, res.Valid, tc.valid, res.Reason)
			}
			if !tc.valid && !strings.Contains(res.Reason, tc.wantSub) {
				t.Errorf("reason %q does not mention %q", res.Reason, tc.wantSub)
			}
		})
	}
}

func TestDateAvailableIgnoresTimeOfDay(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)
	// late evening today is still "today"
	lateToday := time.Date(2025, 6, 2, 23, 59, 0, 0, time.Local)
	if res := e.DateAvailable(lateToday); res.Valid {
		t.Fatal("23:59 today must still count as same-day")
	}
}

func TestMinimumAndMaximumDate(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)

	wantMin := time.Date(2025, 6, 3, 0, 0, 0, 0, time.Local)
	wantMax := time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local)
	if got := e.MinimumDate(); !got.Equal(wantMin) {
		t.Errorf("MinimumDate = %v, want %v", got, wantMin)
	}
	if got := e.MaximumDate(); !got.Equal(wantMax) {
		t.Errorf("MaximumDate = %v, want %v", got, wantMax)
	}
	// pure functions of "now": repeated calls agree
	if !e.MinimumDate().Equal(e.MinimumDate()) || !e.MaximumDate().Equal(e.MaximumDate()) {
		t.Error("repeated calls within one instant must match")
	}
}

func TestTimeAvailable(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)

	cases := []struct {
		tod     models.TimeOfDay
		valid   bool
		wantSub string
	}{
		{models.TimeOfDay{Hour: 7, Minute: 30}, true, ""},
		{models.TimeOfDay{Hour: 10, Minute: 59}, true, ""},
		{models.TimeOfDay{Hour: 7, Minute: 29}, false, "later time"},
		{models.TimeOfDay{Hour: 6}, false, "later time"},
		{models.TimeOfDay{Hour: 11}, false, "earlier time"},
		{models.TimeOfDay{Hour: 13}, false, "earlier time"},
	}
	for _, tc := range cases {
		res := e.TimeAvailable(tc.tod)
		if res.Valid != tc.valid {
			t.Errorf("TimeAvailable(%v) valid = %v, want %v (%q)", tc.tod, res.Valid, tc.valid, res.Reason)
			continue
		}
		if !tc.valid && !strings.Contains(res.Reason, tc.wantSub) {
			t.Errorf("TimeAvailable(%v) reason %q does not mention %q", tc.tod, res.Reason, tc.wantSub)
		}
	}
}

func TestTimeSlots(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)

	slots := slices.Collect(e.TimeSlots())
	if len(slots) != 7 {
		t.Fatalf("got %d slots, want 7: %v", len(slots), slots)
	}
	if slots[0] != (models.TimeOfDay{Hour: 7, Minute: 30}) {
		t.Errorf("first slot = %v, want 07:30", slots[0])
	}
	if slots[6] != (models.TimeOfDay{Hour: 10, Minute: 30}) {
		t.Errorf("last slot = %v, want 10:30", slots[6])
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Before(slots[i]) {
			t.Errorf("slots not strictly increasing at %d: %v", i, slots)
		}
	}
	// every offered slot passes the time rule
	for _, s := range slots {
		if res := e.TimeAvailable(s); !res.Valid {
			t.Errorf("offered slot %v rejected: %s", s, res.Reason)
		}
	}
	// restartable: a second range starts over
	again := slices.Collect(e.TimeSlots())
	if !slices.Equal(slots, again) {
		t.Error("second iteration differs from the first")
	}
}

func TestCanCreateAppointment(t *testing.T) {
	dir := fakeDirectory{"s1": {ID: "s1", Name: "Ahmed Abdullah"}}

	t.Run("eligible", func(t *testing.T) {
		e := newTestEngine(fakeEligibility{}, dir)
		if res := e.CanCreateAppointment("s1"); !res.Valid {
			t.Fatalf("want valid, got %q", res.Reason)
		}
	})

	t.Run("active appointment blocks and names the student", func(t *testing.T) {
		e := newTestEngine(fakeEligibility{active: map[string]bool{"s1": true}}, dir)
		res := e.CanCreateAppointment("s1")
		if res.Valid || !strings.Contains(res.Reason, "Ahmed Abdullah") {
			t.Fatalf("got %+v", res)
		}
	})

	t.Run("weekly quota blocks", func(t *testing.T) {
		e := newTestEngine(fakeEligibility{weekly: map[string]bool{"s1": true}}, dir)
		res := e.CanCreateAppointment("s1")
		if res.Valid || !strings.Contains(res.Reason, "this week") {
			t.Fatalf("got %+v", res)
		}
	})

	t.Run("active check runs before weekly check", func(t *testing.T) {
		e := newTestEngine(fakeEligibility{
			active: map[string]bool{"s1": true},
			weekly: map[string]bool{"s1": true},
		}, dir)
		res := e.CanCreateAppointment("s1")
		if !strings.Contains(res.Reason, "active appointment") {
			t.Fatalf("want the active-appointment reason first, got %q", res.Reason)
		}
	})

	t.Run("unknown student gets a generic message", func(t *testing.T) {
		e := newTestEngine(fakeEligibility{active: map[string]bool{"ghost": true}}, dir)
		res := e.CanCreateAppointment("ghost")
		if res.Valid || !strings.Contains(res.Reason, "This student") {
			t.Fatalf("got %+v", res)
		}
	})
}

func TestValidatePurpose(t *testing.T) {
	e := newTestEngine(fakeEligibility{}, nil)

	cases := []struct {
		name  string
		text  string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \n\t ", false},
		{"one short sentence", "Short.", false},
		{"two sentences but short", "Hi. Ok.", false},
		{"long but one sentence", "I would like to discuss progress in mathematics", false},
		{"valid", "I am concerned about grades. Please advise on next steps.", true},
		{"ellipsis inflates the count", "Hmm... this is a rather long thought", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.ValidatePurpose(tc.text)
			if res.Valid != tc.valid {
				t.Fatalf("ValidatePurpose(%q) valid = %v, want %v (%q)", tc.text, res.Valid, tc.valid, res.Reason)
			}
		})
	}
}

func TestSentenceCount(t *testing.T) {
	// a character tally, not real segmentation
	if n := SentenceCount("Wait... really?!"); n != 5 {
		t.Errorf("SentenceCount = %d, want 5", n)
	}
	if n := SentenceCount("No terminators here"); n != 0 {
		t.Errorf("SentenceCount = %d, want 0", n)
	}
}

func TestValidateAppointmentOrder(t *testing.T) {
	dir := fakeDirectory{"s1": {ID: "s1", Name: "Ahmed Abdullah"}}
	e := newTestEngine(fakeEligibility{}, dir)

	tomorrow := testNow.AddDate(0, 0, 1)
	friday := time.Date(2025, 6, 6, 0, 0, 0, 0, time.Local)
	goodTime := models.TimeOfDay{Hour: 8}
	badTime := models.TimeOfDay{Hour: 12}
	purpose := "I am concerned about grades. Please advise on next steps."

	sub := Submission{StudentID: "s1"}
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "representative") {
		t.Fatalf("want representative failure, got %+v", res)
	}

	sub.RepresentativeID = "rep_1"
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "date") {
		t.Fatalf("want date-presence failure, got %+v", res)
	}

	sub.Date = &friday
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "Fridays") {
		t.Fatalf("want Friday failure, got %+v", res)
	}

	sub.Date = &tomorrow
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "time") {
		t.Fatalf("want time-presence failure, got %+v", res)
	}

	sub.Time = &badTime
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "earlier time") {
		t.Fatalf("want time-window failure, got %+v", res)
	}

	sub.Time = &goodTime
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "duration") {
		t.Fatalf("want duration failure, got %+v", res)
	}

	sub.Duration = models.Duration15
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "category") {
		t.Fatalf("want category failure, got %+v", res)
	}

	sub.Category = models.CategoryAdvisory
	if res := e.ValidateAppointment(sub); res.Valid || !strings.Contains(res.Reason, "purpose") {
		t.Fatalf("want purpose failure, got %+v", res)
	}

	sub.Purpose = purpose
	if res := e.ValidateAppointment(sub); !res.Valid {
		t.Fatalf("want valid, got %q", res.Reason)
	}

	// student eligibility is checked before everything else
	blocked := newTestEngine(fakeEligibility{active: map[string]bool{"s1": true}}, dir)
	if res := blocked.ValidateAppointment(Submission{StudentID: "s1"}); !strings.Contains(res.Reason, "active appointment") {
		t.Fatalf("want eligibility failure first, got %q", res.Reason)
	}
}
