package protocol

import (
	"encoding/json"
	"fmt"
)

// Normalize parses one raw text frame and classifies it into exactly one
// Event. A frame that is not valid JSON returns an error (the frame is
// dropped by the caller). A frame that is valid JSON but matches none of the
// recognized shapes, or that lacks a shape's minimally required fields,
// normalizes to Unknown.
func Normalize(raw []byte) (Event, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed frame: %s", firstBytes(raw, 64))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Valid JSON but not an object (array, bare scalar).
		return Unknown{}, nil
	}

	switch Kind(env.Type) {
	case KindInitialState:
		var ev InitialState
		if err := json.Unmarshal(raw, &ev); err != nil {
			return Unknown{}, nil
		}
		return ev, nil

	case KindClientDisconnected:
		var ev ClientDisconnected
		if err := json.Unmarshal(raw, &ev); err != nil || ev.ClientID == "" {
			return Unknown{}, nil
		}
		return ev, nil

	case KindTimerUpdate:
		var ev TimerUpdate
		if err := json.Unmarshal(raw, &ev); err != nil || ev.ClientID == "" || ev.Timer == "" {
			return Unknown{}, nil
		}
		return ev, nil

	case KindProcessedAnswer:
		var ev ProcessedAnswer
		if err := json.Unmarshal(raw, &ev); err != nil || ev.ClientID == "" || ev.Answer == "" {
			return Unknown{}, nil
		}
		return ev, nil
	}

	// No recognized type tag: try the untagged live question shape.
	var ev LiveQuestion
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Unknown{}, nil
	}
	if ev.ClientID == "" || ev.UserInfo == "" || ev.Answers == nil {
		return Unknown{}, nil
	}
	if ev.Question == "" && ev.QuestionImg == "" {
		return Unknown{}, nil
	}
	return ev, nil
}

func firstBytes(raw []byte, n int) []byte {
	if len(raw) <= n {
		return raw
	}
	return raw[:n]
}
