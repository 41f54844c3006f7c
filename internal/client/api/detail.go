package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// errorBody is the backend's error envelope. detail is either a string or a
// list of field errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// String renders "<msg> at <loc joined by ' → '>".
func (f fieldError) String() string {
	msg := f.Msg
	if msg == "" {
		msg = "Validation error"
	}
	if len(f.Loc) == 0 {
		return msg
	}

	parts := make([]string, len(f.Loc))
	for i, l := range f.Loc {
		parts[i] = fmt.Sprint(l)
	}
	return msg + " at " + strings.Join(parts, " → ")
}

// parseDetail extracts the displayable detail from an error body. structured
// is true when the detail was a field-error list; only the first entry is
// rendered. An empty body yields no detail; a body that is not JSON is an
// error.
func parseDetail(body []byte) (detail string, structured bool, err error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", false, nil
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return "", false, err
	}

	raw := bytes.TrimSpace(eb.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, false, nil
	case '[':
		var list []fieldError
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", false, err
		}
		if len(list) == 0 {
			return "", true, nil
		}
		return list[0].String(), true, nil
	default:
		return string(raw), false, nil
	}
}
