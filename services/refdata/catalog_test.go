package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, cities, purposes string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cityPath := filepath.Join(dir, "cities.csv")
	purposePath := filepath.Join(dir, "purposes.csv")
	require.NoError(t, os.WriteFile(cityPath, []byte(cities), 0o644))
	require.NoError(t, os.WriteFile(purposePath, []byte(purposes), 0o644))
	return cityPath, purposePath
}

func TestLoadResolvesCityCodes(t *testing.T) {
	cityPath, purposePath := writeTables(t,
		"Mumbai,BOM\nPune,PNQ\n",
		"RnD Project\nClient Meeting\n")

	cat, err := Load(cityPath, purposePath)
	require.NoError(t, err)

	code, ok := cat.CityCode("Mumbai")
	assert.True(t, ok)
	assert.Equal(t, "BOM", code)

	_, ok = cat.CityCode("Atlantis")
	assert.False(t, ok)

	assert.True(t, cat.ValidPurpose("RnD Project"))
	assert.False(t, cat.ValidPurpose("Vacation"))
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, purposePath := writeTables(t, "Mumbai,BOM\n", "Training\n")

	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), purposePath)
	assert.Error(t, err)
}

func TestLoadFailsOnMalformedCityRow(t *testing.T) {
	cityPath, purposePath := writeTables(t, "Mumbai\n", "Training\n")

	_, err := Load(cityPath, purposePath)
	assert.Error(t, err)
}

func TestSuggestCitiesPrefersMatches(t *testing.T) {
	cityPath, purposePath := writeTables(t,
		"Mumbai,BOM\nPune,PNQ\nNagpur,NAG\nNashik,ISK\n",
		"Training\n")

	cat, err := Load(cityPath, purposePath)
	require.NoError(t, err)

	got := cat.SuggestCities("Na", 2)
	assert.Equal(t, []string{"Nagpur", "Nashik"}, got)

	// No match still yields up to n suggestions, in catalog order.
	got = cat.SuggestCities("Zzz", 3)
	assert.Equal(t, []string{"Mumbai", "Pune", "Nagpur"}, got)
}

func TestPromptInjectionHelpers(t *testing.T) {
	cityPath, purposePath := writeTables(t,
		"Mumbai,BOM\nPune,PNQ\n",
		"RnD Project\nTraining\n")

	cat, err := Load(cityPath, purposePath)
	require.NoError(t, err)

	assert.Equal(t, "Mumbai → BOM\nPune → PNQ", cat.CityPairs())
	assert.Equal(t, "RnD Project, Training", cat.PurposeList())
}
