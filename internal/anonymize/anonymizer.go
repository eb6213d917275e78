// Package anonymize scrubs personally identifiable information from raw
// customer text before any of it is handed to an external LLM.
//
// Detection is pure pattern matching over a fixed, ordered set of
// categories. It is a best-effort filter, not a guarantee: text the
// patterns do not recognize passes through untouched, and Anonymize
// never fails for any input.
package anonymize

import (
	"fmt"
	"regexp"
	"sync"
)

// Category identifies one class of PII the anonymizer detects.
type Category string

const (
	CategoryEmail      Category = "email"
	CategoryPolicy     Category = "policy"
	CategoryCard       Category = "card"
	CategoryNationalID Category = "national_id"
	CategoryPhone      Category = "phone"
	CategoryAddress    Category = "address"
	CategoryPostalCode Category = "postal_code"
	CategoryLicense    Category = "license"
	CategoryDate       Category = "date"
	CategoryName       Category = "name"
)

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	policyPattern = regexp.MustCompile(`\b[A-Z]{2,4}[-\s]?[0-9X]{2,4}[-\s]?[A-Z0-9]{2,4}[-\s]?[0-9]{2}\b`)

	// Card before any numeric-date handling: a 16-digit card number
	// contains runs that the date and phone patterns would otherwise
	// chew into partial matches.
	cardPattern       = regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)
	nationalIDPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	phonePattern     = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	intlPhonePattern = regexp.MustCompile(`\+(?:44|61|27)\s?\d{2,4}\s?\d{3,4}\s?\d{3,4}`)

	addressPattern = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][a-z]+\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Court|Ct|Boulevard|Blvd)\b`)

	// UK-format postcodes only. Bare four-digit sequences are left
	// alone so years in prose survive.
	postalPattern  = regexp.MustCompile(`\b[A-Z]{1,2}\d{1,2}\s?\d[A-Z]{2}\b`)
	licensePattern = regexp.MustCompile(`\b[A-Z]{1,2}\d{6,8}\b`)

	// Separator-delimited dates only (candidate dates of birth). A bare
	// four-digit year never matches this shape, so years are preserved.
	datePattern = regexp.MustCompile(`\b(?:\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{4}[-/]\d{1,2}[-/]\d{1,2})\b`)

	namePattern = regexp.MustCompile(`\b(Mr\.?|Mrs\.?|Ms\.?|Miss|Dr\.?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)

	// Recognize our own placeholders so re-running the anonymizer over
	// already-scrubbed text is a no-op.
	emailPlaceholderPattern  = regexp.MustCompile(`^customer\d+@example\.com$`)
	policyPlaceholderPattern = regexp.MustCompile(`^POL-\d{4}$`)
)

// Session carries the per-run anonymization state: the placeholder
// mappings that keep email and policy replacements consistent within a
// single pipeline run, and the per-category replacement counters.
//
// A Session must be scoped to exactly one run and discarded afterward;
// reusing it across runs would correlate placeholder identities across
// sessions. The mapping is never exposed, so the transform is one-way.
// Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	emails    map[string]string
	policies  map[string]string
	emailSeq  int
	policySeq int

	counts map[Category]int
}

// NewSession creates an empty anonymization session.
func NewSession() *Session {
	return &Session{
		emails:   map[string]string{},
		policies: map[string]string{},
		counts:   map[Category]int{},
	}
}

// Anonymize replaces PII spans in text with placeholders and returns the
// scrubbed text plus the replacement count per category for this call.
// It never fails: unmatched or malformed patterns are left untouched.
func (s *Session) Anonymize(text string) (string, map[Category]int) {
	counts := map[Category]int{}
	if text == "" {
		return text, counts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Order matters: the consistent categories go first so their
	// placeholders are not corrupted by later redactions, and card /
	// national-ID sequences are removed before the looser phone and
	// date patterns can cross-match them.
	out := emailPattern.ReplaceAllStringFunc(text, func(match string) string {
		if emailPlaceholderPattern.MatchString(match) {
			return match
		}
		counts[CategoryEmail]++
		return s.emailPlaceholder(match)
	})

	out = policyPattern.ReplaceAllStringFunc(out, func(match string) string {
		if policyPlaceholderPattern.MatchString(match) {
			return match
		}
		counts[CategoryPolicy]++
		return s.policyPlaceholder(match)
	})

	out = replaceCounted(out, cardPattern, "[REDACTED_CARD]", CategoryCard, counts)
	out = replaceCounted(out, nationalIDPattern, "[REDACTED_ID]", CategoryNationalID, counts)
	out = replaceCounted(out, phonePattern, "[REDACTED_PHONE]", CategoryPhone, counts)
	out = replaceCounted(out, intlPhonePattern, "[REDACTED_PHONE]", CategoryPhone, counts)
	out = replaceCounted(out, addressPattern, "[REDACTED_ADDRESS]", CategoryAddress, counts)
	out = replaceCounted(out, postalPattern, "[REDACTED_POSTCODE]", CategoryPostalCode, counts)
	out = replaceCounted(out, licensePattern, "[REDACTED_LICENSE]", CategoryLicense, counts)
	out = replaceCounted(out, datePattern, "[REDACTED_DATE]", CategoryDate, counts)

	out = namePattern.ReplaceAllStringFunc(out, func(match string) string {
		sub := namePattern.FindStringSubmatch(match)
		if len(sub) != 3 {
			return match
		}
		counts[CategoryName]++
		return sub[1] + " [REDACTED_NAME]"
	})

	for category, n := range counts {
		s.counts[category] += n
	}

	return out, counts
}

// Counts returns a copy of the accumulated per-category replacement
// counters for the whole session.
func (s *Session) Counts() map[Category]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[Category]int, len(s.counts))
	for category, n := range s.counts {
		out[category] = n
	}
	return out
}

// Stats summarizes the session for logging: distinct values replaced per
// consistent category. The underlying mappings are never returned.
func (s *Session) Stats() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fmt.Sprintf("%d emails, %d policy references pseudonymized", len(s.emails), len(s.policies))
}

func (s *Session) emailPlaceholder(email string) string {
	if placeholder, ok := s.emails[email]; ok {
		return placeholder
	}
	s.emailSeq++
	placeholder := fmt.Sprintf("customer%d@example.com", s.emailSeq)
	s.emails[email] = placeholder
	return placeholder
}

func (s *Session) policyPlaceholder(policy string) string {
	if placeholder, ok := s.policies[policy]; ok {
		return placeholder
	}
	s.policySeq++
	placeholder := fmt.Sprintf("POL-%04d", s.policySeq)
	s.policies[policy] = placeholder
	return placeholder
}

func replaceCounted(text string, pattern *regexp.Regexp, token string, category Category, counts map[Category]int) string {
	return pattern.ReplaceAllStringFunc(text, func(string) string {
		counts[category]++
		return token
	})
}
