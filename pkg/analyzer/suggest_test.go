package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"Button", "ButtonGroup", "IconButton", "Card", "Dialog", "Button"}

	got := Suggest("Buton", candidates)
	assert.Equal(t, "Button", got[0])
	assert.NotContains(t, got, "Dialog")

	got = Suggest("button", candidates)
	assert.Equal(t, []string{"Button", "IconButton", "ButtonGroup"}, got)

	assert.Empty(t, Suggest("Zzzzzz", candidates))
	assert.Nil(t, Suggest("", candidates))
	assert.Nil(t, Suggest("Button", nil))
}

func TestSuggest_Limit(t *testing.T) {
	candidates := []string{"Item1", "Item2", "Item3", "Item4", "Item5", "Item6", "Item7"}
	assert.Len(t, Suggest("Item", candidates), maxSuggestions)
}
