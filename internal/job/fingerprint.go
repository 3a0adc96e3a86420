package job

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Fingerprint returns the deterministic SHA-256 content identity of the
// posting as a lowercase 64-character hex digest.
//
// It covers core content only: title, company, location, description,
// requirements (order-significant), salary_min, salary_max, currency,
// employment_type and remote. Provenance (source, url, posted_date, tags)
// and the retained raw map never participate, so the same job observed via
// different feeds hashes identically.
func (p *Posting) Fingerprint() string {
	sum := sha256.Sum256([]byte(p.canonicalJSON()))
	return hex.EncodeToString(sum[:])
}

// canonicalJSON serializes the fingerprint subset with lexicographically
// sorted keys, no extraneous whitespace and ASCII-escaped strings. The
// format is pinned so that reimplementations hash identical logical content
// to identical digests.
func (p *Posting) canonicalJSON() string {
	var b strings.Builder

	b.WriteByte('{')
	writeCanonicalString(&b, "company")
	b.WriteByte(':')
	writeCanonicalString(&b, p.Company)

	b.WriteString(`,"currency":`)
	writeOptionalString(&b, p.Currency)

	b.WriteString(`,"description":`)
	writeCanonicalString(&b, p.Description)

	b.WriteString(`,"employment_type":`)
	writeOptionalString(&b, p.EmploymentType)

	b.WriteString(`,"location":`)
	writeCanonicalString(&b, p.Location)

	b.WriteString(`,"remote":`)
	switch {
	case p.Remote == nil:
		b.WriteString("null")
	case *p.Remote:
		b.WriteString("true")
	default:
		b.WriteString("false")
	}

	b.WriteString(`,"requirements":[`)
	for i, req := range p.Requirements {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonicalString(&b, req)
	}
	b.WriteByte(']')

	b.WriteString(`,"salary_max":`)
	writeOptionalFloat(&b, p.SalaryMax)

	b.WriteString(`,"salary_min":`)
	writeOptionalFloat(&b, p.SalaryMin)

	b.WriteString(`,"title":`)
	writeCanonicalString(&b, p.Title)

	b.WriteByte('}')
	return b.String()
}

func writeOptionalString(b *strings.Builder, s string) {
	if s == "" {
		b.WriteString("null")
		return
	}
	writeCanonicalString(b, s)
}

func writeOptionalFloat(b *strings.Builder, f *float64) {
	if f == nil {
		b.WriteString("null")
		return
	}
	b.WriteString(canonicalFloat(*f))
}

// canonicalFloat pins the numeric representation used inside fingerprints:
// integral values always carry a decimal point ("80000.0"), everything else
// uses the shortest round-trip form.
func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// writeCanonicalString emits a JSON string with every rune outside the
// printable ASCII range escaped as \uXXXX, matching the original feed
// archive digests.
func writeCanonicalString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
}
