package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCoversEveryMainCategory(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	total := 0
	for _, main := range MainCategories {
		subs := Subcategories(main)
		assert.NotEmpty(t, subs, "main category %q has no subcategories", main)
		total += len(subs)
	}
	assert.Len(t, all, total)
}

func TestMainForRoundTrip(t *testing.T) {
	for _, main := range MainCategories {
		for _, sub := range Subcategories(main) {
			got, ok := MainFor(sub)
			require.True(t, ok, "missing reverse index entry for %q", sub)
			assert.Equal(t, main, got)
		}
	}
}

func TestIsSubcategory(t *testing.T) {
	assert.True(t, IsSubcategory("Pets & Animals"))
	assert.True(t, IsSubcategory("Poster Design"))
	assert.False(t, IsSubcategory("Miscellaneous"), "main categories are not leaves")
	assert.False(t, IsSubcategory("Nonexistent"))
}

func TestPetsAndAnimalsBelongsToMiscellaneous(t *testing.T) {
	main, ok := MainFor("Pets & Animals")
	require.True(t, ok)
	assert.Equal(t, "Miscellaneous", main)
}
