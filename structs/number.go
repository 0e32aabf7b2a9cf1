package structs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LooseInt is an integer as older clients wrote it: a JSON number, possibly
// with a fraction, or a numeric string. Fractions are truncated.
type LooseInt int

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return fmt.Errorf("invalid number %s", string(data))
	}

	f = math.Trunc(f)
	switch {
	case f >= math.MaxInt64:
		*n = LooseInt(math.MaxInt)
	case f <= math.MinInt64:
		*n = LooseInt(math.MinInt)
	default:
		*n = LooseInt(int(f))
	}
	return nil
}

// IntPtr converts an optional LooseInt, keeping nil as nil
func (n *LooseInt) IntPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

// decodeLenient decodes a JSON object into v. When the object does not fit as
// a whole it is decoded again one field at a time, and the fields that do not
// fit keep their zero value. Only input that is not an object is an error.
func decodeLenient[T any](data []byte, v *T) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out T
	for name, raw := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: raw})
		if err != nil {
			continue
		}
		next := out
		if err := json.Unmarshal(one, &next); err == nil {
			out = next
		}
	}
	*v = out
	return nil
}
