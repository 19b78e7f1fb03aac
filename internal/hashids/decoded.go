package hashids

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tells which shape a Decoded value has.
type Kind int

const (
	// Invalid means the string was not produced by the codec.
	Invalid Kind = iota
	// Single means exactly one integer was encoded.
	Single
	// Multiple means two or more integers were encoded, in order.
	Multiple
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return "invalid"
	}
}

// Decoded is the result of decoding a hashid. The zero value is Invalid.
type Decoded struct {
	ids []int
}

func newDecoded(ids []int) Decoded {
	if len(ids) == 0 {
		return Decoded{}
	}
	cp := make([]int, len(ids))
	copy(cp, ids)
	return Decoded{ids: cp}
}

// Kind reports the shape of d.
func (d Decoded) Kind() Kind {
	switch len(d.ids) {
	case 0:
		return Invalid
	case 1:
		return Single
	default:
		return Multiple
	}
}

func (d Decoded) Valid() bool {
	return d.Kind() != Invalid
}

// Single returns the integer when d holds exactly one.
func (d Decoded) Single() (int, bool) {
	if d.Kind() != Single {
		return 0, false
	}
	return d.ids[0], true
}

// Multiple returns the integers when d holds two or more.
func (d Decoded) Multiple() ([]int, bool) {
	if d.Kind() != Multiple {
		return nil, false
	}
	return d.Ints(), true
}

// Ints returns a copy of every decoded integer regardless of shape, empty
// when d is Invalid.
func (d Decoded) Ints() []int {
	cp := make([]int, len(d.ids))
	copy(cp, d.ids)
	return cp
}

func (d Decoded) String() string {
	switch d.Kind() {
	case Invalid:
		return "Invalid"
	case Single:
		return fmt.Sprintf("Single(%d)", d.ids[0])
	}
	parts := make([]string, len(d.ids))
	for i, id := range d.ids {
		parts[i] = strconv.Itoa(id)
	}
	return "Multiple(" + strings.Join(parts, ",") + ")"
}
