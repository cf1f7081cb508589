package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

func TestSanitize(t *testing.T) {
	got, err := Sanitize(Submission{
		Name:    "  Ann   <b>Lee</b> ",
		Email:   " Ann@Example.COM ",
		Message: "Hi!\r\nI liked <script>alert(1)</script>your\tportfolio.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "Hi! I liked your portfolio.", got.Message)
}

func TestSanitize_NFC(t *testing.T) {
	got, err := Sanitize(Submission{Name: "Jose\u0301", Email: "j@example.com", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, "Jos\u00e9", got.Name)
}

func TestSanitize_Rejects(t *testing.T) {
	valid := Submission{Name: "Ann", Email: "ann@example.com", Message: "Hi"}

	tests := []struct {
		name   string
		mutate func(*Submission)
		target error
		field  string
	}{
		{"missing name", func(s *Submission) { s.Name = "  " }, domerrors.ErrMissingFields, ""},
		{"markup only message", func(s *Submission) { s.Message = "<p> </p>" }, domerrors.ErrMissingFields, ""},
		{"missing email", func(s *Submission) { s.Email = "" }, domerrors.ErrMissingFields, ""},
		{"email without at", func(s *Submission) { s.Email = "ann.example.com" }, domerrors.ErrInvalidInput, "email"},
		{"email with two ats", func(s *Submission) { s.Email = "a@b@c" }, domerrors.ErrInvalidInput, "email"},
		{"long name", func(s *Submission) { s.Name = strings.Repeat("n", MaxNameLength+1) }, domerrors.ErrInvalidInput, "name"},
		{"long message", func(s *Submission) { s.Message = strings.Repeat("m", MaxMessageLength+1) }, domerrors.ErrInvalidInput, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			_, err := Sanitize(s)
			require.ErrorIs(t, err, tt.target)
			if tt.field != "" {
				var ve *domerrors.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.field, ve.Field)
			}
		})
	}
}

func TestSanitize_RuneLimits(t *testing.T) {
	_, err := Sanitize(Submission{
		Name:    strings.Repeat("é", MaxNameLength),
		Email:   "ann@example.com",
		Message: "Hi",
	})
	assert.NoError(t, err)
}
