package storage

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// Field limits, counted in runes.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 5000
)

// Submission is the raw contact form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

var (
	whitespaceRun = regexp.MustCompile(`[ \t]+`)
	lineBreaks    = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
	emailShape    = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// Sanitize cleans and validates s. Blank fields (after cleaning) yield
// ErrMissingFields; other problems yield a *ValidationError.
func Sanitize(s Submission) (Submission, error) {
	out := Submission{
		Name:    cleanText(s.Name),
		Email:   strings.ToLower(cleanText(s.Email)),
		Message: cleanText(s.Message),
	}

	if out.Name == "" || out.Email == "" || out.Message == "" {
		return Submission{}, domerrors.ErrMissingFields
	}
	if utf8.RuneCountInString(out.Name) > MaxNameLength {
		return Submission{}, domerrors.NewValidationError("name", "Name is too long")
	}
	if utf8.RuneCountInString(out.Email) > MaxEmailLength || !emailShape.MatchString(out.Email) {
		return Submission{}, domerrors.NewValidationError("email", "Invalid email address")
	}
	if utf8.RuneCountInString(out.Message) > MaxMessageLength {
		return Submission{}, domerrors.NewValidationError("message", "Message is too long")
	}
	return out, nil
}

// cleanText strips markup, puts everything on one line, collapses spaces
// and normalises to NFC.
func cleanText(s string) string {
	if strings.ContainsRune(s, '<') {
		s = stripHTML(s)
	}
	s = lineBreaks.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(norm.NFC.String(s))
}

func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}
