package structs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a record identifier that may be persisted either as a JSON number or
// as a JSON string. Older snapshots used slugs ("f-braslet") and composite ids
// ("1-0") for categories, newer ones use integers.
type ID string

// IDFromInt returns the ID for a numeric identifier
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// IsZero reports whether the id is empty
func (id ID) IsZero() bool {
	return id == ""
}

// Int returns the numeric value of the id the way a browser parseInt would:
// leading digits only, 0 when there are none.
func (id ID) Int() int64 {
	s := strings.TrimSpace(string(id))
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// numeric reports whether the id is a canonical integer, i.e. it was (or
// should be) persisted as a JSON number.
func (id ID) numeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

func (id ID) String() string {
	return string(id)
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if i, err := n.Int64(); err == nil {
			*id = IDFromInt(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		if f == float64(int64(f)) {
			*id = IDFromInt(int64(f))
			return nil
		}
		*id = ID(n.String())
		return nil
	default:
		return fmt.Errorf("invalid id %s", string(data))
	}
}

// SameID compares two optional ids, treating nil and empty as "no id"
func SameID(a, b *ID) bool {
	aEmpty := a == nil || a.IsZero()
	bEmpty := b == nil || b.IsZero()
	if aEmpty || bEmpty {
		return aEmpty == bEmpty
	}
	return *a == *b
}

// Ptr returns a pointer to id, or nil for the empty id
func (id ID) Ptr() *ID {
	if id.IsZero() {
		return nil
	}
	return &id
}
