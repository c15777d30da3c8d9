// Package search normaliza texto para búsquedas sin distinguir mayúsculas ni
// tildes (los nombres de productos y clientes suelen llevarlas).
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone (NFD), elimina marcas diacríticas y recompone (NFC).
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize devuelve s en minúsculas, sin tildes y con espacios colapsados.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Si la transformación falla (entrada no UTF-8), se degrada a lower.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Matches indica si needle (ya normalizado o no) aparece como subcadena de
// haystack bajo la misma normalización.
func Matches(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}
