package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeDescription pliega mayúsculas/minúsculas, unifica la forma Unicode (NFC)
// y colapsa espacios, para la coincidencia exacta de descripciones contra el catálogo.
func NormalizeDescription(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s) // un Caser no se comparte entre goroutines
	return strings.Join(strings.Fields(s), " ")
}
