package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kim-mac/aiopad/internal/ai"
)

func TestMergeAI(t *testing.T) {
	a, _ := newTestApp(t, nil)
	id := a.Dispatch(CreateNote{}).NoteID
	a.Dispatch(EditNote{ID: id, Content: str("Once upon a time")})

	cmd, msg := MergeAI(id, ai.Complete, ai.Result{Text: "there was a fox."})
	require.NotNil(t, cmd)
	assert.Equal(t, "Completion added", msg)
	a.Dispatch(cmd)
	n, _ := a.Note(id)
	assert.Equal(t, "Once upon a time\n\nthere was a fox.", n.Content)

	cmd, _ = MergeAI(id, ai.Summarize, ai.Result{Text: "• A fox."})
	a.Dispatch(cmd)
	n, _ = a.Note(id)
	assert.Equal(t, "• A fox.", n.Content)

	d := ai.DetectText(n.Content)
	cmd, msg = MergeAI(id, ai.Detect, ai.Result{Text: d.String(), Detection: &d})
	assert.Nil(t, cmd)
	assert.Contains(t, msg, "human-written")
}

func TestMergeOCR(t *testing.T) {
	a, _ := newTestApp(t, nil)
	id := a.Dispatch(CreateNote{}).NoteID

	a.Dispatch(MergeOCR(id, "first"))
	a.Dispatch(MergeOCR(id, "second"))
	n, _ := a.Note(id)
	assert.Equal(t, "first\n\nsecond", n.Content)
}
