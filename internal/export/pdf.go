package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// writePDF lays out an A4 page: 16pt title, then 12pt wrapped content
func writePDF(w io.Writer, title, content string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(title, true)
	pdf.SetCreator("aiopad", false)
	pdf.SetCompression(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(content), "", "L", false)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
