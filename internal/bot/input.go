package bot

import (
	"strconv"
	"strings"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	apperrors "github.com/smartspb/mediabot/internal/errors"
	"github.com/smartspb/mediabot/internal/validation"
)

type daysInput struct {
	Days int `field:"days" validate:"gte=0,lte=36500"`
}

type rangeInput struct {
	From time.Time `field:"from" validate:"required,ltefield=To"`
	To   time.Time `field:"to" validate:"required"`
}

type ordinalInput struct {
	Ordinal int `field:"ordinal" validate:"gte=0"`
}

type queryInput struct {
	Query string `field:"query" validate:"required,max=200"`
}

// inputParser turns free-text answers into validated values.
type inputParser struct {
	validator *validation.Validator
	location  *time.Location
}

func (p inputParser) days(text string) (int, error) {
	n, err := parseNumber(text)
	if err != nil {
		return 0, err
	}
	in := daysInput{Days: n}
	return in.Days, p.validator.Validate(in)
}

// dateRange parses "DD.MM.YYYY-DD.MM.YYYY". Both days are inclusive.
func (p inputParser) dateRange(text string) (from, to time.Time, err error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, apperrors.Validation("range needs two dates")
	}

	in := rangeInput{}
	if in.From, err = time.ParseInLocation(domain.DateLayout, strings.TrimSpace(parts[0]), p.location); err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid start date").WithCause(err)
	}
	if in.To, err = time.ParseInLocation(domain.DateLayout, strings.TrimSpace(parts[1]), p.location); err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid end date").WithCause(err)
	}
	if err := p.validator.Validate(in); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in.From, in.To, nil
}

func (p inputParser) ordinal(text string) (int, error) {
	n, err := parseNumber(text)
	if err != nil {
		return 0, err
	}
	in := ordinalInput{Ordinal: n}
	return in.Ordinal, p.validator.Validate(in)
}

func (p inputParser) query(text string) (string, error) {
	in := queryInput{Query: strings.TrimSpace(text)}
	return in.Query, p.validator.Validate(in)
}

// parseNumber accepts only ASCII digits.
func parseNumber(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.TrimLeft(text, "0123456789") != "" {
		return 0, apperrors.Validation("not a number")
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, apperrors.Validation("number out of range").WithCause(err)
	}
	return n, nil
}
