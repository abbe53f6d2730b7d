package types

import (
	"strconv"
	"strings"
	"unicode"
)

// NaNText is how the not-a-number sentinel is written into request bodies
const NaNText = "NaN"

// Value is an integer form field, or the NaN sentinel when the input held no
// leading digits
type Value struct {
	Int int64
	NaN bool
	// Big holds the digits of a prefix too large for int64
	Big string
	// Raw is the field text exactly as typed
	Raw string
}

// ParseValue parses s as a base-10 integer prefix. Text after the digits is
// ignored; no digits at all yields NaN. A prefix outside the int64 range is
// kept as its digits and still sent as a number.
func ParseValue(s string) Value {
	v := Value{Raw: s}
	t := strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if t != "" && (t[0] == '+' || t[0] == '-') {
		if t[0] == '-' {
			sign = "-"
		}
		t = t[1:]
	}

	end := 0
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == 0 {
		v.NaN = true
		return v
	}

	n, err := strconv.ParseInt(sign+t[:end], 10, 64)
	if err != nil {
		digits := strings.TrimLeft(t[:end], "0")
		v.Big = sign + digits
		return v
	}
	v.Int = n
	return v
}

// IntValue wraps an already-parsed integer
func IntValue(n int64) Value {
	return Value{Int: n, Raw: strconv.FormatInt(n, 10)}
}

// String returns the wire representation
func (v Value) String() string {
	if v.NaN {
		return NaNText
	}
	if v.Big != "" {
		return v.Big
	}
	return strconv.FormatInt(v.Int, 10)
}

// Display returns the text shown in the insertion log. NaN values show what
// the user typed.
func (v Value) Display() string {
	if v.NaN {
		return v.Raw
	}
	return v.String()
}
