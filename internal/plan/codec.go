package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unwraps a remote plan payload. The planning service responds with
// either a bare plan object or a one-element array wrapping it; both are
// accepted here so callers never inspect the raw shape themselves.
func Decode(data []byte) (*Plan, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty plan payload")
	}

	if trimmed[0] == '[' {
		var plans []Plan
		if err := json.Unmarshal(trimmed, &plans); err != nil {
			return nil, fmt.Errorf("failed to parse plan array: %w", err)
		}
		if len(plans) == 0 {
			return nil, fmt.Errorf("plan array is empty")
		}
		return &plans[0], nil
	}

	var p Plan
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	return &p, nil
}
