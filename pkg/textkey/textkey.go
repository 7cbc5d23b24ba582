// Package textkey normaliza nombres libres (ubicaciones, categorías) en claves estables.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize quita tildes, pliega mayúsculas y reemplaza separadores por "_".
//
//	"Nairobi Warehouse"  -> "nairobi_warehouse"
//	"Bogotá-Centro"      -> "bogota_centro"
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	out = cases.Fold().String(out)

	var b strings.Builder
	b.Grow(len(out))
	sep := false
	for _, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}
