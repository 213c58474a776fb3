package results

import (
	"encoding/json"
	"fmt"
)

// Envelope wraps a Result for JSON transport as {"kind": ..., <fields>}.
type Envelope struct {
	Result Result
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	switch r := e.Result.(type) {
	case RetinaResult:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			RetinaResult
		}{KindRetina, r})
	case FindingsResult:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			FindingsResult
		}{KindFindings, r})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, e.Result)
	}
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	r, err := Decode(data)
	if err != nil {
		return err
	}
	e.Result = r
	return nil
}

// Decode reads a tagged result envelope.
func Decode(data []byte) (Result, error) {
	var tag struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode result kind: %w", err)
	}

	switch tag.Kind {
	case KindRetina:
		var r RetinaResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode retina result: %w", err)
		}
		return r, nil
	case KindFindings:
		var r FindingsResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode findings result: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, tag.Kind)
	}
}
