package fuzzy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sello/internal/verification/fuzzy"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics stripped", "María García", "maria garcia"},
		{"case folded", "JUAN PEREZ", "juan perez"},
		{"whitespace collapsed", "  Ana   Lucía  ", "ana lucia"},
		{"enie stripped", "Muñoz", "munoz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fuzzy.Normalize(tt.in))
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	t.Run("diacritics do not lower the score", func(t *testing.T) {
		assert.InDelta(t, 1.0, fuzzy.NameSimilarity("María García", "Maria Garcia"), 1e-9)
	})

	t.Run("case does not lower the score", func(t *testing.T) {
		assert.InDelta(t, 1.0, fuzzy.NameSimilarity("JUAN PEREZ", "juan perez"), 1e-9)
	})

	t.Run("different names score low", func(t *testing.T) {
		assert.Less(t, fuzzy.NameSimilarity("Pedro", "Pablo"), 0.5)
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		assert.Zero(t, fuzzy.NameSimilarity("", "Maria"))
		assert.Zero(t, fuzzy.NameSimilarity("Maria", ""))
	})

	t.Run("swapped word order keeps the longest block", func(t *testing.T) {
		// Only one of the two words can anchor a matching block.
		score := fuzzy.NameSimilarity("Garcia Maria", "Maria Garcia")
		assert.InDelta(t, 0.5, score, 1e-9)
	})
}

func TestTokenJaccard(t *testing.T) {
	stopwords := []string{"de", "la", "el", "y", "para"}

	t.Run("identical texts score one", func(t *testing.T) {
		score := fuzzy.TokenJaccard("limpieza profunda de hogares", "limpieza profunda de hogares", stopwords)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("disjoint texts score zero", func(t *testing.T) {
		score := fuzzy.TokenJaccard("limpieza profunda", "clases matemáticas", stopwords)
		assert.Zero(t, score)
	})

	t.Run("stopwords do not count as overlap", func(t *testing.T) {
		score := fuzzy.TokenJaccard("la limpieza de hogares", "la reparación de computadoras", stopwords)
		assert.Zero(t, score)
	})

	t.Run("partial overlap", func(t *testing.T) {
		score := fuzzy.TokenJaccard("limpieza profunda hogares", "limpieza oficinas", stopwords)
		// intersection {limpieza}, union {limpieza, profunda, hogares, oficinas}
		assert.InDelta(t, 0.25, score, 1e-9)
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Zero(t, fuzzy.TokenJaccard("", "limpieza", stopwords))
	})
}
