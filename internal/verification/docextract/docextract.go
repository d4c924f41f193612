// Package docextract parses the noisy OCR output of Ecuadorian ID cards into
// structured fields: surnames, given names, document number, and dates.
package docextract

import (
	"regexp"
	"strings"
	"time"
)

// Fields holds what could be recovered from a card's OCR text. Any field may
// be empty when the scan did not surface it.
type Fields struct {
	Surnames   string
	GivenNames string
	IDNumber   string
	BirthDate  *time.Time
	ExpiryDate *time.Time
}

var (
	// Machine-readable zone name line: SURNAME<SURNAME<<GIVEN<GIVEN<...
	// The double chevron splits surnames from given names.
	mrzNamePattern = regexp.MustCompile(`([A-Z]+(?:<[A-Z]+)*)<<([A-Z]+(?:<[A-Z]+)*)`)

	// Labeled-field fallbacks for the human-readable face of the card. The
	// captured value stops at the end of the line so the next label is never
	// swallowed.
	surnamesLabelPattern = regexp.MustCompile(`(?i:APELLIDOS?)\s*:?[ \t]*([A-ZÁÉÍÓÚÑ]+(?:[ \t]+[A-ZÁÉÍÓÚÑ]+)*)`)
	givenLabelPattern    = regexp.MustCompile(`(?i:NOMBRES?)\s*:?[ \t]*([A-ZÁÉÍÓÚÑ]+(?:[ \t]+[A-ZÁÉÍÓÚÑ]+)*)`)

	idNumberPattern = regexp.MustCompile(`\b[0-9]{10}\b`)
	datePattern     = regexp.MustCompile(`\b([0-9]{2})/([0-9]{2})/([0-9]{4})\b`)
)

// Parse extracts structured fields from raw OCR text. The machine-readable
// zone wins over labeled fields when both are present because OCR mangles
// the printed labels far more often than the MRZ font. Of the slash dates,
// the first is taken as birth date and the second as expiry.
func Parse(ocrText string) Fields {
	var f Fields

	if m := mrzNamePattern.FindStringSubmatch(ocrText); m != nil {
		f.Surnames = strings.ReplaceAll(m[1], "<", " ")
		f.GivenNames = strings.ReplaceAll(m[2], "<", " ")
	} else {
		if m := surnamesLabelPattern.FindStringSubmatch(ocrText); m != nil {
			f.Surnames = strings.TrimSpace(m[1])
		}
		if m := givenLabelPattern.FindStringSubmatch(ocrText); m != nil {
			f.GivenNames = strings.TrimSpace(m[1])
		}
	}

	if m := idNumberPattern.FindString(ocrText); m != "" {
		f.IDNumber = m
	}

	dates := datePattern.FindAllStringSubmatch(ocrText, 2)
	if len(dates) > 0 {
		f.BirthDate = parseDate(dates[0])
	}
	if len(dates) > 1 {
		f.ExpiryDate = parseDate(dates[1])
	}

	return f
}

// FullName joins given names and surnames in natural order for comparison
// against a profile's display name.
func (f Fields) FullName() string {
	return strings.TrimSpace(f.GivenNames + " " + f.Surnames)
}

// HasName reports whether any name component was recovered.
func (f Fields) HasName() bool {
	return f.Surnames != "" || f.GivenNames != ""
}

// Legible reports whether the OCR pass produced enough text to be considered
// a readable scan. Short garbage output means the photo itself is unusable.
func Legible(ocrText string) bool {
	return len(strings.TrimSpace(ocrText)) >= 10
}

func parseDate(groups []string) *time.Time {
	t, err := time.Parse("02/01/2006", groups[0])
	if err != nil {
		return nil
	}
	return &t
}
