package app

import (
	"github.com/kim-mac/aiopad/internal/ai"
)

// MergeAI turns a successful transform of a note's content into the
// command that applies it. Completions are appended, rewrites replace the
// content and detection only produces a message, with a nil command.
func MergeAI(noteID string, kind ai.Kind, res ai.Result) (Command, string) {
	switch {
	case res.Detection != nil:
		return nil, res.Detection.String()
	case kind == ai.Complete:
		return AppendText{ID: noteID, Text: res.Text}, "Completion added"
	default:
		return ReplaceContent{ID: noteID, Text: res.Text}, "Content updated"
	}
}

// MergeOCR appends recognized handwriting to a note
func MergeOCR(noteID, text string) Command {
	return AppendText{ID: noteID, Text: text}
}
