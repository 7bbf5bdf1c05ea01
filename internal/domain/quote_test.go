package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Theme
	}{
		{name: "known theme", raw: "modern", expected: ThemeModern},
		{name: "uppercase normalized", raw: "MIDNIGHT", expected: ThemeMidnight},
		{name: "surrounding whitespace", raw: "  ocean ", expected: ThemeOcean},
		{name: "empty falls back", raw: "", expected: ThemeClassic},
		{name: "unknown falls back", raw: "neon", expected: ThemeClassic},
		{name: "default is first enum value", raw: "garbage", expected: DefaultTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTheme(tt.raw))
		})
	}
}

func TestQuote_UncategorizedKeepsCategoryField(t *testing.T) {
	data, err := json.Marshal(Quote{
		ID:   "q1",
		Text: "kategorisiz bir alıntı",
		Date: "01.03.2025",
	})
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"category":""`)
}

func TestThemes_ReturnsCopy(t *testing.T) {
	first := Themes()
	first[0] = Theme("mutated")

	assert.Equal(t, ThemeClassic, Themes()[0])
}

func TestIsPaletteColor(t *testing.T) {
	assert.True(t, IsPaletteColor("#E3F2FD"))
	assert.True(t, IsPaletteColor("#e3f2fd"), "hex digits compare case-insensitively")
	assert.False(t, IsPaletteColor("#123456"))
	assert.False(t, IsPaletteColor(""))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Felsefe", NormalizeCategory("  Felsefe "))
	assert.Equal(t, "", NormalizeCategory("   "))
	assert.Equal(t, "", NormalizeCategory(""))
}
