// Package sse decodes line-oriented Server-Sent Event streams into
// discrete protocol frames.
package sse

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const (
	dataPrefix       = "data: "
	terminalSentinel = "[DONE]"
)

// FrameKind classifies a decoded frame.
type FrameKind int

const (
	// FrameData carries a JSON payload to be parsed by the caller.
	FrameData FrameKind = iota
	// FrameRaw carries a non-JSON payload that must be forwarded
	// byte-for-byte; some upstreams emit vendor keep-alive lines.
	FrameRaw
	// FrameTerminal marks the end of the stream.
	FrameTerminal
)

// Frame is one decoded event from the upstream stream.
type Frame struct {
	Kind    FrameKind
	Payload string
}

// Reader turns an unbounded byte stream into a sequence of frames. A
// frame is only produced once a full line has arrived; trailing partial
// lines are retained across read boundaries rather than emitted early.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a frame reader over the upstream response body.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next frame. Lines without the event prefix (blank
// lines, protocol comments) are discarded silently. Returns io.EOF when
// the underlying stream is exhausted.
func (r *Reader) Next() (*Frame, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == "" {
			continue
		}
		if payload == terminalSentinel {
			return &Frame{Kind: FrameTerminal, Payload: payload}, nil
		}
		if !json.Valid([]byte(payload)) {
			return &Frame{Kind: FrameRaw, Payload: payload}, nil
		}
		return &Frame{Kind: FrameData, Payload: payload}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
