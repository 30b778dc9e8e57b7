package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.
Blueprint 2: Each ore robot costs 2 ore. Each clay robot costs 3 ore. Each obsidian robot costs 3 ore and 8 clay. Each geode robot costs 3 ore and 12 obsidian.
`

func TestParseBlueprints_Sample(t *testing.T) {
	got, err := ParseBlueprints(sampleText)
	require.NoError(t, err)
	want := []Blueprint{fixtureA(), fixtureB()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseBlueprints mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlueprints_Wrapped(t *testing.T) {
	text := `
Blueprint 1:
  Each ore robot costs 4 ore.
  Each clay robot costs 2 ore.
  Each obsidian robot costs 3 ore
    and 14 clay.
  Each geode robot costs 2 ore and 7 obsidian.
`
	got, err := ParseBlueprints(text)
	require.NoError(t, err)
	if diff := cmp.Diff([]Blueprint{fixtureA()}, got); diff != "" {
		t.Errorf("wrapped record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlueprints_Empty(t *testing.T) {
	got, err := ParseBlueprints("  \n\n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseBlueprints_Generalized(t *testing.T) {
	text := "Blueprint 7: Each wood robot costs 1 wood. Each plank robot costs 2 wood. Each chair robot costs 1 wood and 3 plank."
	got, err := ParseBlueprints(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	bp := got[0]
	assert.Equal(t, 7, bp.ID)
	assert.Equal(t, []string{"wood", "plank", "chair"}, bp.Names)
	assert.Equal(t, ResourceKind(2), bp.Terminal())
	assert.Equal(t, Amounts{0: 2, 1: 3}, bp.DemandCap)
}

func TestParseBlueprints_Malformed(t *testing.T) {
	tests := []struct {
		name, text string
	}{
		{"no header", "Each ore robot costs 4 ore."},
		{"leading junk", "hello\nBlueprint 1: Each ore robot costs 1 ore. Each geode robot costs 1 ore."},
		{"no sentences", "Blueprint 1: nothing to see"},
		{"single kind", "Blueprint 1: Each ore robot costs 1 ore."},
		{"unknown kind", "Blueprint 1: Each ore robot costs 1 ore. Each geode robot costs 2 gold."},
		{"terminal consumed", "Blueprint 1: Each ore robot costs 1 geode. Each geode robot costs 2 ore."},
		{"bad cost", "Blueprint 1: Each ore robot costs lots of ore. Each geode robot costs 2 ore."},
		{"duplicate producer", "Blueprint 1: Each ore robot costs 1 ore. Each ore robot costs 2 ore. Each geode robot costs 2 ore."},
		{"duplicate id", "Blueprint 1: Each ore robot costs 1 ore. Each geode robot costs 2 ore.\nBlueprint 1: Each ore robot costs 1 ore. Each geode robot costs 2 ore."},
		{"kinds differ", "Blueprint 1: Each ore robot costs 1 ore. Each geode robot costs 2 ore.\nBlueprint 2: Each ore robot costs 1 ore. Each gem robot costs 2 ore."},
		{"too many kinds", "Blueprint 1: Each a robot costs 1 a. Each b robot costs 1 a. Each c robot costs 1 a. Each d robot costs 1 a. Each e robot costs 1 a. Each f robot costs 1 a. Each g robot costs 1 a. Each h robot costs 1 a. Each i robot costs 1 a."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlueprints(tt.text)
			assert.ErrorIs(t, err, ErrMalformedBlueprint)
		})
	}
}

func TestFormatBlueprint_RoundTrip(t *testing.T) {
	for _, bp := range []Blueprint{fixtureA(), fixtureB()} {
		text := FormatBlueprint(&bp)
		got, err := ParseBlueprints(text)
		require.NoError(t, err, text)
		if diff := cmp.Diff([]Blueprint{bp}, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFormatDemandCap(t *testing.T) {
	a := fixtureA()
	assert.Equal(t, "ore=4 clay=14 obsidian=7", FormatDemandCap(&a))
}

func TestParseBlueprintsJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "blueprints.json"))
	require.NoError(t, err)

	got, err := ParseBlueprintsJSON(string(data))
	require.NoError(t, err)
	if diff := cmp.Diff([]Blueprint{fixtureA(), fixtureB()}, got); diff != "" {
		t.Errorf("ParseBlueprintsJSON mismatch (-want +got):\n%s", diff)
	}

	cfg := applyRequestConfig(string(data), Config{Horizon: 1, Mode: ModeProduct})
	assert.Equal(t, 24, cfg.Horizon)
	assert.Equal(t, ModeQuality, cfg.Mode)
}

func TestParseBlueprintsJSON_InputText(t *testing.T) {
	doc := `{"input": "Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian."}`
	got, err := ParseBlueprintsJSON(doc)
	require.NoError(t, err)
	if diff := cmp.Diff([]Blueprint{fixtureA()}, got); diff != "" {
		t.Errorf("input text mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlueprintsJSON_DefaultIDs(t *testing.T) {
	doc := `{"blueprints":[
		{"costs":{"ore":{"ore":1},"geode":{"ore":1}}},
		{"costs":{"ore":{"ore":2},"geode":{"ore":2}}}
	]}`
	got, err := ParseBlueprintsJSON(doc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, []string{"ore", "geode"}, got[1].Names)
}

func TestParseBlueprintsJSON_Malformed(t *testing.T) {
	tests := []struct {
		name, doc string
	}{
		{"invalid json", `{"blueprints":[`},
		{"no blueprints", `{"horizon":24}`},
		{"costs not object", `{"blueprints":[{"costs":[1,2]}]}`},
		{"missing row", `{"blueprints":[{"kinds":["ore","geode"],"costs":{"ore":{"ore":1}}}]}`},
		{"fractional cost", `{"blueprints":[{"costs":{"ore":{"ore":1.5},"geode":{"ore":1}}}]}`},
		{"string cost", `{"blueprints":[{"costs":{"ore":{"ore":"1"},"geode":{"ore":1}}}]}`},
		{"negative cost", `{"blueprints":[{"costs":{"ore":{"ore":-1},"geode":{"ore":1}}}]}`},
		{"duplicate id", `{"blueprints":[{"id":4,"costs":{"ore":{"ore":1},"geode":{"ore":1}}},{"id":4,"costs":{"ore":{"ore":1},"geode":{"ore":1}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlueprintsJSON(tt.doc)
			assert.ErrorIs(t, err, ErrMalformedBlueprint)
		})
	}
}

func TestLoadBlueprints(t *testing.T) {
	text, err := LoadBlueprints(filepath.Join("testdata", "blueprints.txt"))
	require.NoError(t, err)
	doc, err := LoadBlueprints(filepath.Join("testdata", "blueprints.json"))
	require.NoError(t, err)
	if diff := cmp.Diff(text, doc); diff != "" {
		t.Errorf("text and JSON forms differ (-text +json):\n%s", diff)
	}

	_, err = LoadBlueprints(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
