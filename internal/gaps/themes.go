package gaps

import "strings"

// GeneralTheme is the fallback for questions no keyword matches.
const GeneralTheme = "general"

// themeEntry pairs a theme with the keywords that signal it. The table
// is scanned in order, first hit wins, so assignment is deterministic.
type themeEntry struct {
	theme    string
	keywords []string
}

var themeTable = []themeEntry{
	{"claim", []string{"claim", "claims", "filing", "submit"}},
	{"policy", []string{"policy", "policies", "coverage", "plan"}},
	{"payment", []string{"payment", "pay", "billing", "invoice", "premium"}},
	{"account", []string{"account", "login", "password", "access"}},
	{"cancellation", []string{"cancel", "cancellation", "terminate", "end"}},
	{"renewal", []string{"renew", "renewal", "extension", "expiry", "expire"}},
	{"quote", []string{"quote", "quotation", "estimate", "price"}},
	{"document", []string{"document", "documents", "paperwork", "forms", "certificate"}},
	{"contact", []string{"contact", "reach", "phone", "email", "support"}},
	{"change", []string{"change", "update", "modify", "edit"}},
}

// InferTheme assigns a theme to question text by keyword match,
// falling back to GeneralTheme.
func InferTheme(text string) string {
	lowered := strings.ToLower(text)
	for _, entry := range themeTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.theme
			}
		}
	}
	return GeneralTheme
}
