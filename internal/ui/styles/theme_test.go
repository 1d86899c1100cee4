package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/notes"
)

func TestEverySavedThemeHasAPalette(t *testing.T) {
	for _, variant := range notes.ThemeVariants {
		for _, mode := range notes.ThemeModes {
			th, ok := Lookup(variant, mode)
			require.True(t, ok, "%s %s", variant, mode)
			assert.NotEmpty(t, th.Primary)
			assert.NotEqual(t, th.Background, th.Foreground)
		}
	}
}

func TestApply(t *testing.T) {
	prev := Current
	t.Cleanup(func() { Current = prev })

	require.True(t, Apply("ocean", "light"))
	assert.Equal(t, lipgloss.Color("#0288d1"), Current.Primary)
	assert.Equal(t, lipgloss.Color("#e3f2fd"), Current.Background)

	assert.False(t, Apply("neon", "dark"))
	assert.Equal(t, lipgloss.Color("#0288d1"), Current.Primary, "unknown themes keep the current one")
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 60, ContentWidth(60))
	assert.Equal(t, MaxWidth, ContentWidth(MaxWidth+40))
}
