package narrative

import (
	"fmt"

	"github.com/goccy/go-json"
)

// replySource records which response field supplied the text.
type replySource int

const (
	sourceNone replySource = iota
	sourceNarrative
	sourceMessage
)

func (s replySource) String() string {
	switch s {
	case sourceNarrative:
		return "narrative"
	case sourceMessage:
		return "message"
	default:
		return "none"
	}
}

// reply is the parsed provider response. text is set unless source is sourceNone.
type reply struct {
	source replySource
	text   string
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return fmt.Sprintf("decoding narrative response: %v", e.err) }
func (e *decodeError) Unwrap() error { return e.err }

// parseReply picks "narrative" over "message". Missing, null and empty
// fields are all treated as absent.
func parseReply(body []byte) (reply, error) {
	var raw struct {
		Narrative *string `json:"narrative"`
		Message   *string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return reply{}, &decodeError{err: err}
	}

	switch {
	case raw.Narrative != nil && *raw.Narrative != "":
		return reply{source: sourceNarrative, text: *raw.Narrative}, nil
	case raw.Message != nil && *raw.Message != "":
		return reply{source: sourceMessage, text: *raw.Message}, nil
	default:
		return reply{source: sourceNone}, nil
	}
}
