// Package markdown renders note content for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Style picks a glamour style config
type Style string

const (
	Dark  Style = "dark"
	Light Style = "light"
	ASCII Style = "ascii"
)

type rendererKey struct {
	width int
	style Style
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]*glamour.TermRenderer{}
)

// Render formats markdown for a terminal of the given width. Content that
// fails to render is returned unchanged.
func Render(content string, width int, style Style) string {
	content = strings.TrimRight(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}
	r := renderer(width, style)
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func renderer(width int, style Style) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	key := rendererKey{width, style}
	if cached, ok := renderers[key]; ok {
		return cached
	}
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(config(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}

func config(style Style) ansi.StyleConfig {
	switch style {
	case Light:
		return styles.LightStyleConfig
	case ASCII:
		return styles.ASCIIStyleConfig
	default:
		return styles.DarkStyleConfig
	}
}
