// Package reasoning locates and extracts model deliberation text from
// chat completion messages and streaming deltas. Upstream providers
// disagree on the field name, so extraction consults a fixed priority
// list of known names.
package reasoning

// Fields lists the recognized reasoning field names in priority order.
// Supporting a new provider means appending its field name here.
var Fields = []string{
	"reasoning_content",
	"reasoning",
	"thinking",
	"thought",
}

// ExtractFromDelta removes every recognized reasoning field from a
// streaming delta and returns their concatenated values in priority
// order. The delta is always sanitized, even when the caller will not
// display the text: reasoning fields must never reach the client.
func ExtractFromDelta(delta map[string]any) string {
	if delta == nil {
		return ""
	}
	var extracted string
	for _, field := range Fields {
		if text, ok := delta[field].(string); ok {
			if text != "" {
				extracted += text
			}
			delete(delta, field)
		}
	}
	return extracted
}

// ExtractFromMessage returns the first recognized reasoning field found
// on a complete (non-streamed) message, or "" if none is present. The
// message is left untouched.
func ExtractFromMessage(message map[string]any) string {
	if message == nil {
		return ""
	}
	for _, field := range Fields {
		if text, ok := message[field].(string); ok && text != "" {
			return text
		}
	}
	return ""
}

// WrapBlock formats accumulated reasoning text as one contiguous
// delimited block ready to be placed before answer content.
func WrapBlock(openTag, closeTag, text string) string {
	return openTag + "\n" + text + "\n" + closeTag + "\n\n"
}
