package sse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader delivers its parts one Read call at a time, simulating an
// upstream transport that splits frames across delivery boundaries.
type chunkReader struct {
	parts []string
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.parts[0])
	if n < len(c.parts[0]) {
		c.parts[0] = c.parts[0][n:]
	} else {
		c.parts = c.parts[1:]
	}
	return n, nil
}

func TestReader_PartialLineAcrossChunks(t *testing.T) {
	r := NewReader(&chunkReader{parts: []string{"data: {\"a\":1", "}\n\n"}})

	frame, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameData, frame.Kind)
	assert.Equal(t, `{"a":1}`, frame.Payload)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ClassifiesFrames(t *testing.T) {
	input := "data: {\"id\":\"x\"}\n\n" +
		": comment\n" +
		"event: ping\n" +
		"data: keep-alive\n\n" +
		"data: [DONE]\n\n"
	r := NewReader(strings.NewReader(input))

	frame, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameData, frame.Kind)

	frame, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameRaw, frame.Kind)
	assert.Equal(t, "keep-alive", frame.Payload)

	frame, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameTerminal, frame.Kind)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_BlankAndEmptyDataLinesDiscarded(t *testing.T) {
	r := NewReader(strings.NewReader("\n\ndata: \n\ndata: {\"ok\":true}\n"))

	frame, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, FrameData, frame.Kind)
	assert.Equal(t, `{"ok":true}`, frame.Payload)
}

func TestReader_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}
