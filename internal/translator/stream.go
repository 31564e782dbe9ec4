package translator

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NightBlaze752/openai-nim-proxy/internal/models"
	"github.com/NightBlaze752/openai-nim-proxy/internal/reasoning"
	"github.com/NightBlaze752/openai-nim-proxy/internal/sse"
)

const terminalEvent = "data: [DONE]\n\n"

// StreamSession translates one upstream event stream into downstream
// chunks. Reasoning deltas are withheld and reassembled into a single
// delimited block inserted before the first content-bearing chunk, or
// before the terminal sentinel if no content ever arrives. A session
// serves exactly one request and is not safe for concurrent use.
type StreamSession struct {
	clientModel string
	display     bool
	openTag     string
	closeTag    string

	buffer  strings.Builder
	emitted bool
	closed  bool

	lastID      string
	lastCreated int64
}

// NewStreamSession creates a session for one in-flight streaming
// request. display controls whether reasoning is surfaced or stripped.
func NewStreamSession(clientModel string, display bool, openTag, closeTag string) *StreamSession {
	return &StreamSession{
		clientModel: clientModel,
		display:     display,
		openTag:     openTag,
		closeTag:    closeTag,
	}
}

// Closed reports whether the terminal sentinel has been forwarded. No
// frames are processed after that.
func (s *StreamSession) Closed() bool {
	return s.closed
}

// ReasoningEmitted reports whether a synthesized reasoning block was
// sent downstream during this session.
func (s *StreamSession) ReasoningEmitted() bool {
	return s.emitted && s.display
}

// HandleFrame consumes one upstream frame and returns the downstream
// events to write, each a complete "data: ...\n\n" line. An empty
// result means the frame was suppressed.
func (s *StreamSession) HandleFrame(frame *sse.Frame) []string {
	if s.closed {
		return nil
	}

	switch frame.Kind {
	case sse.FrameTerminal:
		var events []string
		if s.display && !s.emitted && s.buffer.Len() > 0 {
			events = append(events, s.reasoningEvent())
			s.emitted = true
		}
		s.closed = true
		return append(events, terminalEvent)
	case sse.FrameRaw:
		// Vendor keep-alive or other non-JSON line, pass through.
		return []string{rawEvent(frame.Payload)}
	}

	var chunk models.StreamChunk
	if err := json.Unmarshal([]byte(frame.Payload), &chunk); err != nil {
		return []string{rawEvent(frame.Payload)}
	}
	if chunk.ID != "" {
		s.lastID = chunk.ID
	}
	if chunk.Created != 0 {
		s.lastCreated = chunk.Created
	}
	if len(chunk.Choices) == 0 {
		// Usage-only chunk, nothing to sanitize.
		return []string{rawEvent(frame.Payload)}
	}

	// Secondary choices are sanitized too; reasoning never leaks.
	for i := 1; i < len(chunk.Choices); i++ {
		reasoning.ExtractFromDelta(chunk.Choices[i].Delta)
	}

	choice := &chunk.Choices[0]
	if choice.Delta == nil {
		choice.Delta = map[string]any{}
	}
	extracted := reasoning.ExtractFromDelta(choice.Delta)
	content, _ := choice.Delta["content"].(string)

	if !s.display {
		// Strict downstream parsers expect the content key on every
		// delta, so an absent value becomes an explicit empty string.
		if _, ok := choice.Delta["content"].(string); !ok {
			choice.Delta["content"] = ""
		}
		return []string{chunkEvent(&chunk, frame.Payload)}
	}

	if extracted != "" {
		s.buffer.WriteString(extracted)
	}
	if content == "" && extracted != "" && choice.FinishReason == nil {
		// Pure reasoning with nothing to display alongside.
		return nil
	}

	var events []string
	if !s.emitted && s.buffer.Len() > 0 && (content != "" || choice.FinishReason != nil) {
		events = append(events, s.reasoningEvent())
		s.emitted = true
	}
	if _, ok := choice.Delta["content"].(string); !ok {
		choice.Delta["content"] = ""
	}
	return append(events, chunkEvent(&chunk, frame.Payload))
}

// reasoningEvent builds the one synthesized chunk holding the delimited
// reasoning block. It inherits the envelope of the last upstream chunk
// seen, if any.
func (s *StreamSession) reasoningEvent() string {
	id := s.lastID
	if id == "" {
		id = "chatcmpl-" + uuid.NewString()
	}
	created := s.lastCreated
	if created == 0 {
		created = time.Now().Unix()
	}

	block := reasoning.WrapBlock(s.openTag, s.closeTag, s.buffer.String())
	chunk := &models.StreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   s.clientModel,
		Choices: []models.StreamChoice{
			{Index: 0, Delta: map[string]any{"content": block}},
		},
	}
	return chunkEvent(chunk, "")
}

// chunkEvent serializes a chunk without HTML escaping so delimiter tags
// like <think> cross the wire literally.
func chunkEvent(chunk *models.StreamChunk, fallback string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(chunk); err != nil {
		return rawEvent(fallback)
	}
	return rawEvent(strings.TrimSuffix(buf.String(), "\n"))
}

func rawEvent(payload string) string {
	return "data: " + payload + "\n\n"
}
