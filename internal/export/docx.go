package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
)

// writeDOCX writes a Word document with the title as a Title-styled
// heading followed by one paragraph per content line
func writeDOCX(w io.Writer, title, content string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}
	if _, err := doc.AddHeading(title, 0); err != nil {
		return fmt.Errorf("add title: %w", err)
	}
	for _, line := range strings.Split(content, "\n") {
		doc.AddParagraph(line)
	}
	return doc.Write(w)
}
