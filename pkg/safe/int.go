// Package safe converts between integer types and reports values that do not fit.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every failed conversion.
var ErrOutOfRange = errors.New("value out of range")

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint64 rejects negative values.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrOutOfRange, v)
	}
	return uint64(v), nil
}

// Uint32 rejects negative values and values above math.MaxUint32.
func Uint32[T Integer](v T) (uint32, error) {
	u, err := Uint64(v)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d exceeds uint32", ErrOutOfRange, v)
	}
	return uint32(u), nil
}

// Int64 rejects unsigned values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d exceeds int64", ErrOutOfRange, v)
	}
	return int64(v), nil
}
