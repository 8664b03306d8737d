package router

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/spf13/cast"
)

// SignalNotApplicable is printed and serialized for a Signal without a value,
// e.g. a wired client or a mesh node on ethernet backhaul.
const SignalNotApplicable = "-"

var jsonNull = []byte("null")

// FlexString is a string field that remembers whether the router sent it.
// Numbers and booleans are accepted and stored in their text form.
type FlexString struct {
	Val string
	Set bool
}

// String builds a present FlexString.
func String(s string) FlexString {
	return FlexString{Val: s, Set: true}
}

// Or returns the value, or def when the field was absent.
func (f FlexString) Or(def string) string {
	if !f.Set {
		return def
	}
	return f.Val
}

func (f *FlexString) UnmarshalJSON(b []byte) error {
	*f = FlexString{}
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	*f = FlexString{Val: s, Set: true}
	return nil
}

// FlexInt is an integer field that may arrive as a number, a numeric string
// or not at all, depending on firmware.
type FlexInt struct {
	Val int64
	Set bool
}

// Int builds a present FlexInt.
func Int(n int64) FlexInt {
	return FlexInt{Val: n, Set: true}
}

// Or returns the value, or def when the field was absent or unparseable.
func (f FlexInt) Or(def int64) int64 {
	if !f.Set {
		return def
	}
	return f.Val
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	n, ok := decodeInt(b)
	if ok {
		*f = FlexInt{Val: n, Set: true}
	}
	return nil
}

// FlexFloat is the float counterpart of FlexInt.
type FlexFloat struct {
	Val float64
	Set bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	x, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	*f = FlexFloat{Val: x, Set: true}
	return nil
}

// Signal is a signal strength or link quality value. The zero Signal is the
// not-applicable sentinel, which is distinct from a reading of 0.
type Signal struct {
	Value int64
	Valid bool
}

// SignalOf builds a present Signal.
func SignalOf(n int64) Signal {
	return Signal{Value: n, Valid: true}
}

func (s Signal) String() string {
	if !s.Valid {
		return SignalNotApplicable
	}
	return strconv.FormatInt(s.Value, 10)
}

func (s Signal) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(SignalNotApplicable)
	}
	return []byte(strconv.FormatInt(s.Value, 10)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else, including
// the "-" sentinel itself, decodes to the sentinel.
func (s *Signal) UnmarshalJSON(b []byte) error {
	*s = Signal{}
	n, ok := decodeInt(b)
	if ok {
		*s = SignalOf(n)
	}
	return nil
}

func decodeInt(b []byte) (int64, bool) {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return 0, false
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, false
	}
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
