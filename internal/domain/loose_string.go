package domain

import (
	"bytes"
	"encoding/json"
)

// LooseString is a text field that accepts any JSON value. Strings decode
// as-is; numbers, booleans, arrays and objects keep their compact JSON text,
// so a document with an unexpected leaf type still renders.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = LooseString(buf.String())
	return nil
}
