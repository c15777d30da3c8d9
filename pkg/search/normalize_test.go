package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-rentals-api/pkg/search"
)

func TestNormalize_MinusculasYTildes(t *testing.T) {
	assert.Equal(t, "taladro percutor", search.Normalize("Taladro Percutor"))
	assert.Equal(t, "jose garcia", search.Normalize("José García"))
	assert.Equal(t, "nino pequeno", search.Normalize("NIÑO PEQUEÑO"))
}

func TestNormalize_ColapsaEspacios(t *testing.T) {
	assert.Equal(t, "a b c", search.Normalize("  a \t b\n c  "))
	assert.Equal(t, "", search.Normalize("   "))
}

func TestMatches_SubcadenaSinDistincion(t *testing.T) {
	assert.True(t, search.Matches("Compresor Atlas Copco", "atlas"))
	assert.True(t, search.Matches("José García jose@example.com", "GARCÍA"))
	assert.True(t, search.Matches("Martillo", ""), "needle vacío siempre coincide")
	assert.False(t, search.Matches("Martillo", "taladro"))
}
