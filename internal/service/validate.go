package service

import (
	"math"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"github.com/mmynk/tripwiser/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func validateDate(field, value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return invalidf("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

// validateDateRange checks both dates and that end is not before start.
// Dates in this layout order lexically.
func validateDateRange(start, end string) error {
	if err := validateDate("start date", start); err != nil {
		return err
	}
	if err := validateDate("end date", end); err != nil {
		return err
	}
	if end < start {
		return invalidf("end date %s is before start date %s", end, start)
	}
	return nil
}

func validateTime(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		return invalidf("%s must be HH:MM, got %q", field, value)
	}
	return nil
}

// normalizeCurrency upper-cases an ISO 4217 code and checks that it names a
// known currency. XXX, the code for "no currency", is rejected.
func normalizeCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	unit, err := currency.ParseISO(code)
	if err != nil || unit == currency.XXX {
		return "", invalidf("currency must be an ISO 4217 code, got %q", code)
	}
	return unit.String(), nil
}

func normalizeEmail(email string) (string, error) {
	email = models.NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalidf("invalid email %q", email)
	}
	return email, nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return invalidf("amount must be a positive number, got %v", amount)
	}
	return nil
}

// uniqueIDs drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf("%s is required", field)
	}
	return value, nil
}
