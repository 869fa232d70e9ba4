// Package keys builds Redis keys for localities.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const (
	prefix       = "locality"
	maxSlugLen   = 64
	keyHashWidth = 16
)

// Key returns locality:<slug>:<hash>. The slug keeps keys readable in
// redis-cli; the xxhash of the normalized name keeps them unique after the
// slug is sanitized or truncated.
func Key(normalizedName string) string {
	slug := slugify(normalizedName)
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return fmt.Sprintf("%s:%s:%0*x", prefix, slug, keyHashWidth, xxhash.Sum64String(normalizedName))
}

func slugify(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case unicode.IsSpace(r):
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-':
			out = r
		default:
			// Any other rune (including non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
