package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
)

// StringList is an ordered list of strings stored as a JSON array in a
// nullable TEXT column. An empty list is written as NULL, so "empty" and
// "never set" are the same value once persisted.
type StringList []string

// MalformedListReporter receives stored values that could not be decoded.
type MalformedListReporter func(raw string, err error)

var malformedReporter atomic.Pointer[MalformedListReporter]

// SetMalformedListReporter installs the hook invoked for undecodable stored
// lists. Passing nil removes it.
func SetMalformedListReporter(fn MalformedListReporter) {
	if fn == nil {
		malformedReporter.Store(nil)
		return
	}
	malformedReporter.Store(&fn)
}

func reportMalformed(raw string, err error) {
	if fn := malformedReporter.Load(); fn != nil {
		(*fn)(raw, err)
	}
}

// DecodeStringList converts a stored column value into a list. NULL, blank
// and undecodable values all yield an empty list; it never fails.
func DecodeStringList(value any) StringList {
	var raw string
	switch v := value.(type) {
	case nil:
		return StringList{}
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case *string:
		if v == nil {
			return StringList{}
		}
		raw = *v
	default:
		reportMalformed(fmt.Sprint(value), fmt.Errorf("unsupported storage type %T", value))
		return StringList{}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StringList{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		reportMalformed(raw, err)
		return StringList{}
	}
	if list == nil {
		return StringList{}
	}
	return StringList(list)
}

// EncodeStringList returns the canonical stored form of list, or nil when the
// list is empty.
func EncodeStringList(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func (a StringList) Value() (driver.Value, error) {
	if s := EncodeStringList(a); s != nil {
		return *s, nil
	}
	return nil, nil
}

func (a *StringList) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.StringList: Scan on nil pointer")
	}
	*a = DecodeStringList(value)
	return nil
}

// fillEmptyLists replaces nil lists left behind by NULL columns, which the
// driver skips without calling Scan.
func fillEmptyLists(lists ...*StringList) {
	for _, l := range lists {
		if *l == nil {
			*l = StringList{}
		}
	}
}

// MarshalJSON always emits an array, never null.
func (a StringList) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// UnmarshalJSON accepts an array of strings or null. Any other shape is a
// *ValidationError.
func (a *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return &ValidationError{Message: "expected a list of strings, got " + jsonKind(trimmed)}
	}
	*a = list
	return nil
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '{':
		return "an object"
	case '[':
		return "a list with non-string items"
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	default:
		return "a number"
	}
}
