package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/rules"
)

type Config struct {
	BotToken  string
	ChatIDs   []int64 // chats allowed to act as the guardian; empty = any
	Location  *time.Location
	HTTPAddr  string
	LogLevel  string
	Env       string // dev|prod
	SentryDSN string

	Booking rules.Window
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Dubai")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	chatIDs, err := parseIDs(os.Getenv("GUARDIAN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("GUARDIAN_CHAT_IDS: %w", err)
	}

	booking, err := loadBookingWindow()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:  mustEnv("BOT_TOKEN"),
		ChatIDs:   chatIDs,
		Location:  loc,
		HTTPAddr:  getenv("HTTP_ADDR", ":8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		Env:       getenv("ENV", "dev"),
		SentryDSN: os.Getenv("SENTRY_DSN"),
		Booking:   booking,
	}
	return cfg, nil
}

// loadBookingWindow reads the booking-policy knobs; every default is
// the school's current policy.
func loadBookingWindow() (rules.Window, error) {
	win := rules.DefaultWindow()

	var err error
	if win.LeadDays, err = getint("BOOKING_LEAD_DAYS", win.LeadDays); err != nil {
		return win, err
	}
	if win.HorizonDays, err = getint("BOOKING_HORIZON_DAYS", win.HorizonDays); err != nil {
		return win, err
	}
	if win.SlotStepMinutes, err = getint("BOOKING_SLOT_MINUTES", win.SlotStepMinutes); err != nil {
		return win, err
	}
	if v := os.Getenv("BOOKING_OPEN"); v != "" {
		if win.Open, err = models.ParseTimeOfDay(v); err != nil {
			return win, fmt.Errorf("BOOKING_OPEN: %w", err)
		}
	}
	if v := os.Getenv("BOOKING_CLOSE"); v != "" {
		if win.Close, err = models.ParseTimeOfDay(v); err != nil {
			return win, fmt.Errorf("BOOKING_CLOSE: %w", err)
		}
	}
	if v := os.Getenv("BOOKING_BLOCKED_DAYS"); v != "" {
		if win.BlockedWeekdays, err = parseWeekdays(v); err != nil {
			return win, fmt.Errorf("BOOKING_BLOCKED_DAYS: %w", err)
		}
	}
	return win, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseWeekdays accepts names ("Friday,Saturday") or numbers 0-6 with
// Sunday as 0, matching time.Weekday.
func parseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("bad weekday %q", p)
			}
			out = append(out, time.Weekday(n))
			continue
		}
		found := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(p, wd.String()) {
				out = append(out, wd)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("bad weekday %q", p)
		}
	}
	return out, nil
}
