package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ShareCount is a share counter that accepts integers, floats (truncated)
// and numeric strings, since crawled datasets are inconsistent about it.
type ShareCount int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *ShareCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*c = ShareCount(n)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if err != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("invalid share count %q", data)
	}
	*c = ShareCount(f)
	return nil
}
