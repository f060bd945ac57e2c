package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ukPhoneRE   = regexp.MustCompile(`\b0\d{9,10}\b`)
	callTextRE  = regexp.MustCompile(`(?i)Call or Text[^.]*`)
	emailishRE  = regexp.MustCompile(`\S+@\S+`)
	salaryishRE = regexp.MustCompile(`(?i)[£$€]|\d+.*(?:per|/|hour|day|week|month|year|annum|shift)`)
)

// SanitizeSalary strips contact noise (phone numbers, "Call or Text" tails,
// email-like tokens) from a raw salary value. If what remains no longer
// looks like pay information, the whole value is discarded.
func SanitizeSalary(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := ukPhoneRE.ReplaceAllString(raw, "")
	cleaned = callTextRE.ReplaceAllString(cleaned, "")
	cleaned = emailishRE.ReplaceAllString(cleaned, "")
	if !salaryishRE.MatchString(cleaned) {
		return ""
	}
	return collapse(cleaned)
}

const (
	amount = `(\d+(?:,\d{3})*(?:\.\d+)?)`
	period = `(hour|hr|day|week|month|annum|year|shift)`
)

// descSalaryPatterns are tried in order against the description; the first
// match is formatted canonically. Ranges with explicit currency on both ends
// come first so they are not half-matched by the simpler forms.
var descSalaryPatterns = []struct {
	re     *regexp.Regexp
	format func(m []string) string
}{
	{
		re: regexp.MustCompile(`(?i)£\s?` + amount + `\s*-\s*£\s?` + amount + `\s*(?:per|/)\s*` + period),
		format: func(m []string) string {
			return fmt.Sprintf("£%s - £%s per %s", m[1], m[2], strings.ToLower(m[3]))
		},
	},
	{
		re: regexp.MustCompile(`(?i)£\s?` + amount + `\s*-\s*` + amount + `\s*(?:per|/)\s*` + period),
		format: func(m []string) string {
			return fmt.Sprintf("£%s - £%s per %s", m[1], m[2], strings.ToLower(m[3]))
		},
	},
	{
		re: regexp.MustCompile(`(?i)£\s?` + amount + `\s*(?:per|/)\s*` + period),
		format: func(m []string) string {
			return fmt.Sprintf("£%s per %s", m[1], strings.ToLower(m[2]))
		},
	},
	{
		re: regexp.MustCompile(`(?i)EARN\s+£\s?` + amount + `\s*-\s*£\s?` + amount + `\s*PER\s*(DAY|SHIFT)`),
		format: func(m []string) string {
			return fmt.Sprintf("£%s - £%s per %s", m[1], m[2], strings.ToLower(m[3]))
		},
	},
}

// SalaryFromDescription re-derives a salary from free text when the details
// section had none.
func SalaryFromDescription(desc string) string {
	if desc == "" {
		return ""
	}
	for _, p := range descSalaryPatterns {
		if m := p.re.FindStringSubmatch(desc); m != nil {
			return collapse(p.format(m))
		}
	}
	return ""
}
