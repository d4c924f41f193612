// Package textpattern detects contact information and prohibited content in
// free text. Patterns carry evasion-resistant variants (spaced digits,
// "(arroba)" emails, platform-name handles) because providers actively try
// to route clients off-platform.
package textpattern

import "regexp"

// Contact categories reported by DetectContactInfo.
const (
	CategoryPhone       = "phone"
	CategoryEmail       = "email"
	CategoryURL         = "url"
	CategorySocialMedia = "social_media"
)

var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?593\s?[0-9]{8,9}`),                  // country-code form
		regexp.MustCompile(`\b0[0-9]{8,9}\b`),                      // local form
		regexp.MustCompile(`[0-9](?:\s+[0-9]){4,}`),                // spaced digits: "0 9 9 9 1..."
		regexp.MustCompile(`[0-9]{3}[\s\-][0-9]{3}[\s\-][0-9]{4}`), // formatted
	}

	emailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		regexp.MustCompile(`[a-zA-Z0-9._%+\-]+\s*@\s*[a-zA-Z0-9.\-]+\s*\.\s*[a-zA-Z]{2,}`),
		regexp.MustCompile(`(?i)[a-zA-Z0-9._%+\-]+\s*\(\s*arroba\s*\)\s*[a-zA-Z0-9.\-]+`),
	}

	// Deliberately no bare "domain.tld" pattern: it flags ordinary prose
	// ("servicios de limpieza profesional") far too often.
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https?://[^\s]+`),
		regexp.MustCompile(`(?i)\bwww\.[^\s]+`),
	}

	socialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`@[a-zA-Z0-9._]{3,}`),
		regexp.MustCompile(`(?i)\b(?:instagram|insta|ig|facebook|fb|tiktok|twitter)\b[\s:/@]+[a-zA-Z0-9._]{3,}`),
		regexp.MustCompile(`(?i)\b(?:whatsapp|wsp|wap)\b[\s:.]*\+?[0-9]{8,}`),
	}
)

// Detection is the result of a contact-info scan: the deduplicated set of
// matched categories plus the raw matches as evidence.
type Detection struct {
	Found      bool
	Categories []string
	Matches    []string
}

// DetectContactInfo scans text against all four pattern families. Category
// order is fixed (phone, email, url, social_media) so results are
// reproducible.
func DetectContactInfo(text string) Detection {
	if text == "" {
		return Detection{}
	}

	var det Detection
	families := []struct {
		category string
		patterns []*regexp.Regexp
	}{
		{CategoryPhone, phonePatterns},
		{CategoryEmail, emailPatterns},
		{CategoryURL, urlPatterns},
		{CategorySocialMedia, socialPatterns},
	}

	for _, family := range families {
		hit := false
		for _, pattern := range family.patterns {
			matches := pattern.FindAllString(text, -1)
			if len(matches) > 0 {
				hit = true
				det.Matches = append(det.Matches, matches...)
			}
		}
		if hit {
			det.Categories = append(det.Categories, family.category)
		}
	}

	det.Found = len(det.Categories) > 0
	return det
}
