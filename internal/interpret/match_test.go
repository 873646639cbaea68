package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesabkit/hesabchat/internal/domain"
)

func TestTypeHints(t *testing.T) {
	hints := TypeHints("payments to the supplier and the bank")
	assert.True(t, hints.Has(domain.HintSupplier))
	assert.True(t, hints.Has(domain.HintBank))
	assert.False(t, hints.Has(domain.HintClient))

	assert.True(t, TypeHints("customer invoices").Has(domain.HintClient))
	assert.True(t, TypeHints("staff salaries").Has(domain.HintEmployee))
	assert.True(t, TypeHints("").Empty())
}

func TestMatchEntitySubstring(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Melli", Type: "bank"},
		{ID: "2", Name: "Arman", Type: "supplier"},
	}

	e, ok := MatchEntity("show melli transactions this month", entities)
	require.True(t, ok)
	assert.Equal(t, "1", e.ID)

	_, ok = MatchEntity("show my transactions", entities)
	assert.False(t, ok)
}

func TestMatchEntityTieBreaks(t *testing.T) {
	bank := domain.Entity{ID: "b", Name: "Saman", Type: "bank"}
	client := domain.Entity{ID: "c", Name: "Saman", Type: "client"}
	longer := domain.Entity{ID: "l", Name: "Saman Trading", Type: "supplier"}

	// The hinted type wins over an equally named candidate.
	e, ok := MatchEntity("saman bank balance", []domain.Entity{client, bank})
	require.True(t, ok)
	assert.Equal(t, "b", e.ID)

	// Without a hint, the longer name wins.
	e, ok = MatchEntity("payments to saman trading", []domain.Entity{bank, longer})
	require.True(t, ok)
	assert.Equal(t, "l", e.ID)
}

func TestMatchEntityIsOrderIndependent(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Alpha", Type: "client"},
		{ID: "2", Name: "Beta", Type: "client"},
		{ID: "3", Name: "Alphabet", Type: "client"},
	}
	text := "alpha and beta and alphabet all appear"

	perms := [][]domain.Entity{
		{entities[0], entities[1], entities[2]},
		{entities[2], entities[0], entities[1]},
		{entities[1], entities[2], entities[0]},
	}
	for _, p := range perms {
		e, ok := MatchEntity(text, p)
		require.True(t, ok)
		assert.Equal(t, "3", e.ID, "longest name must win regardless of list order")
	}
}

func TestMatchEntityLexicographicFinalTie(t *testing.T) {
	a := domain.Entity{ID: "a", Name: "Nova", Type: "client"}
	b := domain.Entity{ID: "b", Name: "Riva", Type: "client"}

	e, ok := MatchEntity("nova and riva both match", []domain.Entity{b, a})
	require.True(t, ok)
	assert.Equal(t, "a", e.ID)
}
