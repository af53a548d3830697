package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartspb/mediabot/internal/errors"
	"github.com/smartspb/mediabot/internal/validation"
)

type periodInput struct {
	Days int       `field:"days" validate:"gte=0,lte=3650"`
	From time.Time `field:"from" validate:"required,ltefield=To"`
	To   time.Time `field:"to" validate:"required"`
}

func validPeriod() periodInput {
	return periodInput{
		Days: 7,
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(validPeriod()))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		mutate    func(*periodInput)
		wantField string
	}{
		{"negative days", func(p *periodInput) { p.Days = -1 }, "days"},
		{"too many days", func(p *periodInput) { p.Days = 5000 }, "days"},
		{"reversed range", func(p *periodInput) { p.From = p.To.Add(24 * time.Hour) }, "from"},
		{"missing end", func(p *periodInput) { p.To = time.Time{} }, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPeriod()
			tt.mutate(&in)

			err := v.Validate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			details, ok := appErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_FieldTagNames(t *testing.T) {
	v := validation.New()

	in := validPeriod()
	in.Days = -5

	err := v.Validate(in)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "days")
	assert.NotContains(t, err.Error(), "Days")
}
