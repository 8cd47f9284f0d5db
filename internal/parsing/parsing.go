// Package parsing consolidates every rule for taking apart raw product
// descriptions like "[SB42] SOLACE-BLACK 42". All ingestion paths go through
// these functions so the same raw string always yields the same pieces.
package parsing

import (
	"regexp"
	"strings"

	"threadledger/internal/models"
)

var (
	codePattern  = regexp.MustCompile(`^\s*\[([A-Za-z0-9-]+)\]\s*`)
	sizePattern  = regexp.MustCompile(`(?i)^(XXXL|XXL|XL|XS|S|M|L|\d{1,3})$`)
	colorPattern = regexp.MustCompile(`^[A-Za-z]+$`)
	alphaPrefix  = regexp.MustCompile(`^[A-Za-z]+`)
)

// ExtractCode returns the bracketed code token prefixed to the description,
// uppercased, or "" when there is none.
func ExtractCode(raw string) string {
	if m := codePattern.FindStringSubmatch(raw); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// StripCode returns the description with any bracketed code prefix removed.
func StripCode(raw string) string {
	if m := codePattern.FindString(raw); m != "" {
		return strings.TrimSpace(raw[len(m):])
	}
	return strings.TrimSpace(raw)
}

// CodePrefix returns the leading letters of a product code ("SB42" -> "SB").
func CodePrefix(code string) string {
	return strings.ToUpper(alphaPrefix.FindString(code))
}

// ExtractSize returns the trailing size token (numeric or XS..XXXL),
// uppercased, or "" when the description has none.
func ExtractSize(raw string) string {
	_, _, size := split(raw)
	return size
}

// ExtractColor returns the trailing "-COLOR" token, uppercased, or "".
func ExtractColor(raw string) string {
	_, color, _ := split(raw)
	return color
}

// BaseName returns the description with code, color and size stripped,
// uppercased for case-insensitive grouping.
func BaseName(raw string) string {
	base, _, _ := split(raw)
	return base
}

// Normalize derives the (baseName, color, size) grouping triple. It is
// computed for every line regardless of match outcome so unmatched items
// group consistently across repeated ingestions.
func Normalize(raw string) models.NormalizedKey {
	base, color, size := split(raw)
	return models.NormalizedKey{BaseName: base, Color: color, Size: size}
}

// split takes the code-stripped description apart. The trailing token is a
// size when it looks like one and is not the whole name; the color is the
// alphabetic token after the last hyphen of what remains.
func split(raw string) (base, color, size string) {
	rest := StripCode(raw)

	fields := strings.Fields(rest)
	if len(fields) > 1 && sizePattern.MatchString(fields[len(fields)-1]) {
		size = strings.ToUpper(fields[len(fields)-1])
		fields = fields[:len(fields)-1]
	}
	rest = strings.Join(fields, " ")

	if i := strings.LastIndex(rest, "-"); i > 0 {
		tail := strings.TrimSpace(rest[i+1:])
		if colorPattern.MatchString(tail) {
			color = strings.ToUpper(tail)
			rest = rest[:i]
		}
	}

	base = strings.ToUpper(strings.TrimSpace(rest))
	return base, color, size
}
