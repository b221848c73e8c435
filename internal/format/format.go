// Package format holds the pure value formatters used by forms, search and
// the change-diff renderer: Brazilian phone and document masks, currency
// rendering and accent-insensitive normalization.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentType classifies a national identity document
type DocumentType string

const (
	// DocumentCPF is the 11-digit individual taxpayer number
	DocumentCPF DocumentType = "CPF"
	// DocumentRG is a state-issued general registry number
	DocumentRG DocumentType = "RG"
	// DocumentOther is anything that fits neither scheme
	DocumentOther DocumentType = "OTHER"
)

// digits strips every non-digit rune from s
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneNumber progressively applies the (DD) DDDDD-DDDD mask as digits
// accumulate. Purely cosmetic, no validation; idempotent on already-formatted
// input since it re-strips before masking.
func PhoneNumber(raw string) string {
	d := digits(raw)
	if len(d) > 11 {
		d = d[:11]
	}

	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 7:
		return fmt.Sprintf("(%s) %s", d[:2], d[2:])
	default:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	}
}

// Document masks a national document number. Up to 11 digits it applies the
// CPF mask (DDD.DDD.DDD-DD); beyond that a generic RG-like mask, capped at
// 12 digits.
func Document(raw string) string {
	d := digits(raw)

	if len(d) <= 11 {
		switch {
		case len(d) <= 3:
			return d
		case len(d) <= 6:
			return fmt.Sprintf("%s.%s", d[:3], d[3:])
		case len(d) <= 9:
			return fmt.Sprintf("%s.%s.%s", d[:3], d[3:6], d[6:])
		default:
			return fmt.Sprintf("%s.%s.%s-%s", d[:3], d[3:6], d[6:9], d[9:])
		}
	}

	if len(d) > 12 {
		d = d[:12]
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[:2], d[2:5], d[5:8], d[8:])
}

// ClassifyDocument derives the document type and validity from the digit
// content alone. Exactly 11 digits with passing CPF check digits is a valid
// CPF; 6 to 11 digits is accepted as an RG without check-digit validation
// (RG has no nationally uniform check-digit scheme); anything else is OTHER
// and invalid.
func ClassifyDocument(raw string) (DocumentType, bool) {
	d := digits(raw)

	if len(d) == 11 && validCPF(d) {
		return DocumentCPF, true
	}
	if len(d) > 5 && len(d) < 12 {
		return DocumentRG, true
	}
	return DocumentOther, false
}

// validCPF runs the standard two-pass modulo-11 check-digit validation over
// an 11-digit string
func validCPF(d string) bool {
	// Sequences of a single repeated digit pass the arithmetic but are not
	// valid CPFs
	allSame := true
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if cpfCheckDigit(d, 9) != int(d[9]-'0') {
		return false
	}
	return cpfCheckDigit(d, 10) == int(d[10]-'0')
}

// cpfCheckDigit computes the check digit over the first n digits of d
func cpfCheckDigit(d string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// Currency renders an amount in Brazilian real notation (R$ 1.234,56)
func Currency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	wholeStr := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range wholeStr {
		if i > 0 && (len(wholeStr)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}

var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases and strips diacritics for accent-insensitive search
// and comparison
func Normalize(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
