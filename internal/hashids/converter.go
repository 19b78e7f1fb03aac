package hashids

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/NCATS-Gamma/ginhashids/internal/routing"
)

// Converter translates path segments to Decoded values and integers back
// to path segments. It implements routing.Converter.
type Converter struct {
	h *Hashids
}

// Converter returns the path converter backed by h.
func (h *Hashids) Converter() Converter {
	return Converter{h: h}
}

// ToValue decodes a path segment. Segments that are not valid hashids do
// not match the route.
func (conv Converter) ToValue(segment string) (any, error) {
	decoded := conv.h.Decode(segment)
	if !decoded.Valid() {
		return nil, routing.ErrNoMatch
	}
	return decoded, nil
}

// ToURL encodes an integer, a non-empty slice or array of integers, or a
// valid Decoded. 5 and []int{5} produce the same segment.
func (conv Converter) ToURL(value any) (string, error) {
	if d, ok := value.(Decoded); ok {
		if !d.Valid() {
			return "", fmt.Errorf("%w: cannot build a url from an invalid hashid", ErrInvalidArgument)
		}
		return conv.h.Encode(d.ids...)
	}
	if n, ok := toInt(value); ok {
		return conv.h.Encode(n)
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return "", fmt.Errorf("%w: expected an integer or a sequence of integers, got %T", ErrTypeMismatch, value)
	}
	if rv.Len() == 0 {
		return "", fmt.Errorf("%w: cannot build a url from an empty sequence", ErrInvalidArgument)
	}
	values := make([]int, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		n, ok := toInt(elem)
		if !ok {
			return "", fmt.Errorf("%w: element %d is %T, not an integer", ErrTypeMismatch, i, elem)
		}
		values = append(values, n)
	}
	return conv.h.Encode(values...)
}

// Equal lets the router recognise a repeated registration of the same holder.
func (conv Converter) Equal(other routing.Converter) bool {
	o, ok := other.(Converter)
	return ok && o.h == conv.h
}

// Param returns the decoded value of a hashid path parameter. It is Invalid
// when the route did not declare name with the hashid converter.
func Param(c *gin.Context, name string) Decoded {
	d, _ := routing.Value(c, name).(Decoded)
	return d
}

func toInt(value any) (int, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(^uint(0)>>1) {
			return 0, false
		}
		return int(u), true
	}
	return 0, false
}
