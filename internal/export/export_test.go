package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTXT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, TXT, "Groceries", "milk\neggs"))
	assert.Equal(t, "Groceries\n\nmilk\neggs", buf.String())
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, PDF, "Café notes", "Line one\nLine two with a long sentence that wraps across the page width more than once, probably."))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWriteDOCX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, DOCX, "Plan <A & B>", "first\nsecond"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "[Content_Types].xml")
	require.Contains(t, names, "_rels/.rels")
	require.Contains(t, names, "word/document.xml")

	rc, err := names["word/document.xml"].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	var texts []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "document.xml must be well formed")
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "t" {
			var s string
			require.NoError(t, dec.DecodeElement(&s, &se))
			texts = append(texts, s)
		}
	}
	assert.Subset(t, texts, []string{"Plan <A & B>", "first", "second"})
	assert.Less(t, slices.Index(texts, "Plan <A & B>"), slices.Index(texts, "first"))
	assert.Less(t, slices.Index(texts, "first"), slices.Index(texts, "second"))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(io.Discard, Format("odt"), "t", "c")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".PDF")
	require.NoError(t, err)
	assert.Equal(t, PDF, f)

	_, err = ParseFormat("rtf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Groceries.txt", Filename("Groceries", TXT))
	assert.Equal(t, "a_b_c.pdf", Filename("a/b\\c", PDF))
	assert.Equal(t, "Untitled.docx", Filename("  ", DOCX))
	assert.Equal(t, "Untitled.txt", Filename("..", TXT))
}
