package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

const seedJSON = `{
	"item_types": [
		{"id": 1, "internal_id": "sword", "name": "Sword", "slot": "weapon", "is_weapon": true}
	],
	"classes": [
		{"id": 1, "internal_id": "barbarian", "name": "Barbarian"}
	],
	"affixes": [
		{
			"id": 101,
			"internal_id": "INHERENT_Resource_Max",
			"name": "Maximum Life",
			"category": "Defensive",
			"magic_type": 0,
			"priority": 2,
			"min_value": 400,
			"max_value": 1000,
			"item_types": [1]
		},
		{
			"id": 205,
			"internal_id": "Tempered_Dual_Resist",
			"name": "Resistance to All Elements",
			"is_percentage": true,
			"is_tempering": true,
			"allow_duplicate": true
		}
	],
	"aspects": [
		{
			"id": 501,
			"internal_id": "X_Umbral",
			"name": "Aspect of the Umbral",
			"min_value": 1,
			"max_value": 4,
			"classes": [1]
		}
	]
}`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(seedJSON))
	require.NoError(t, err)

	assert.Equal(t, 5, cat.Size())
	require.Len(t, cat.Affixes, 2)

	life := cat.Affixes[0]
	assert.Equal(t, 101, life.ID)
	assert.Equal(t, model.MagicTypeAffix, life.MagicType)
	assert.Equal(t, 2, life.PriorityTier)
	require.NotNil(t, life.MinValue)
	assert.InDelta(t, 400, *life.MinValue, 1e-9)
	assert.True(t, life.AllowedItemTypes.Contains(1))
	assert.True(t, life.AllowedClasses.IsEmpty())

	resist := cat.Affixes[1]
	assert.True(t, resist.IsTempering)
	assert.True(t, resist.AllowDuplicate)
	assert.Nil(t, resist.MinValue)

	require.Len(t, cat.Aspects, 1)
	assert.True(t, cat.Aspects[0].AllowedClasses.Contains(1))
	assert.Equal(t, "Sword", cat.ItemTypes[0].Name)
	assert.Equal(t, "Barbarian", cat.Classes[0].Name)
}

func TestParseRejectsNamelessEntries(t *testing.T) {
	_, err := Parse([]byte(`{"affixes": [{"id": 7}]}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"classes": [{"id": 7}]}`))
	assert.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cat.Size())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
