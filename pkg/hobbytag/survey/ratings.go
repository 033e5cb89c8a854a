package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Rating is one rating field of a respondent. Valid is false for a declared
// field whose cell was absent or malformed.
type Rating struct {
	Key   string
	Value float64
	Valid bool
}

// Ratings is an ordered rating map. It encodes as a JSON object in field
// order, with invalid fields as null.
type Ratings []Rating

// Get returns the value of a valid field
func (r Ratings) Get(key string) (float64, bool) {
	for _, rt := range r {
		if rt.Key == key {
			return rt.Value, rt.Valid
		}
	}
	return 0, false
}

// Keys returns the field keys in order
func (r Ratings) Keys() []string {
	keys := make([]string, len(r))
	for i, rt := range r {
		keys[i] = rt.Key
	}
	return keys
}

// MarshalJSON encodes the fields as an ordered object
func (r Ratings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rt := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rt.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if !rt.Valid {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(rt.Value, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order
func (r *Ratings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ratings: expected object, got %v", tok)
	}

	out := Ratings{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("ratings %q: %w", key, err)
		}
		if v == nil {
			out = append(out, Rating{Key: key})
			continue
		}
		out = append(out, Rating{Key: key, Value: *v, Valid: true})
	}
	*r = out
	return nil
}
