package acquisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggleRoundTrip(t *testing.T) {
	var s Selection
	s.SetAll([]string{"O1", "Cz"})
	before := s.IDs()

	assert.True(t, s.Toggle("Fp1"))
	assert.Equal(t, []string{"O1", "Cz", "Fp1"}, s.IDs())
	assert.False(t, s.Toggle("Fp1"))
	assert.Equal(t, before, s.IDs())
	assert.Equal(t, "Fp1", s.LastClicked())
}

func TestSelectionCaseInsensitiveIdentity(t *testing.T) {
	var s Selection
	assert.True(t, s.Toggle("Fp1"))
	assert.True(t, s.Contains("FP1"))
	assert.False(t, s.Toggle("fp1"))
	assert.Equal(t, 0, s.Len())
}

func TestSelectionSetAllDeduplicates(t *testing.T) {
	var s Selection
	s.SetAll([]string{"C3", "Fp1", "c3", "", "O2", "Fp1"})
	assert.Equal(t, []string{"C3", "Fp1", "O2"}, s.IDs())
}

func TestSelectionClear(t *testing.T) {
	var s Selection
	s.Toggle("Pz")
	s.Clear()
	assert.Empty(t, s.IDs())
	assert.Empty(t, s.LastClicked())
}

func TestSelectionIDsIsACopy(t *testing.T) {
	var s Selection
	s.Toggle("Oz")
	ids := s.IDs()
	ids[0] = "changed"
	assert.Equal(t, []string{"Oz"}, s.IDs())
}
