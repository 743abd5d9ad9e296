// Package redact scrubs personally identifiable information from raw
// statement text before it leaves the trust boundary.
package redact

import (
	"regexp"
	"strings"
)

// Placeholders substituted for matched PII. None of them re-match any
// pass, which is what makes Redact idempotent.
const (
	placeholderEmail   = "[EMAIL]"
	placeholderIFSC    = "[IFSC]"
	placeholderMobile  = "[MOBILE]"
	placeholderAccount = "[ACC_NO]"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// 4 letters, a literal zero, 6 alphanumerics: HDFC0001234.
	ifscPattern = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	// Indian mobile numbers: optional +91/91/0 prefix, 10 digits starting
	// 6-9. The leading capture keeps the prefix consumption from eating a
	// preceding digit, and RE2 has no lookbehind to anchor it otherwise.
	// The optional decimal tail is matched and inspected in the replace
	// func, like the account pass, so an uncomma'd 10-digit amount is
	// money rather than a phone number.
	mobilePattern = regexp.MustCompile(`(^|[^0-9])((?:\+91[\-\s]?|91|0)?[6-9][0-9]{9})(\.[0-9]{2})?\b`)

	// Long digit runs are account numbers unless they carry a 2-decimal
	// fraction, in which case they are money and must survive. RE2 has no
	// lookahead, so the optional fraction is matched and inspected in the
	// replace func instead.
	accountPattern = regexp.MustCompile(`\b[0-9]{9,18}(\.[0-9]{2})?\b`)
)

// Redact replaces emails, IFSC codes, mobile numbers and account numbers
// with placeholder tokens. Passes run in order; each placeholder removes
// its text from consideration by later passes. Unmatched text passes
// through unchanged, and redacting already-redacted text is a no-op.
func Redact(text string) string {
	text = emailPattern.ReplaceAllString(text, placeholderEmail)
	text = ifscPattern.ReplaceAllString(text, placeholderIFSC)
	text = mobilePattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := mobilePattern.FindStringSubmatch(m)
		if sub[3] != "" {
			// decimal tail means this is a currency amount
			return m
		}
		return sub[1] + placeholderMobile
	})
	text = accountPattern.ReplaceAllStringFunc(text, func(m string) string {
		if strings.Contains(m, ".") {
			// decimal tail means this is a currency amount
			return m
		}
		return placeholderAccount
	})
	return text
}
