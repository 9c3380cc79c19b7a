// This file is part of belt - https://github.com/db47h/belt
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package literal parses integer literals for fixed width operand slots.
//
// Accepted forms are decimal (123), hexadecimal (0x7B, 0X7b), binary
// (0b1111011, 0B...) and octal (0o173, 0O...), with an optional leading '+',
// or '-' for signed slots. Underscores may be used as digit separators anywhere after
// the first digit or base prefix.
package literal

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxBits is the widest slot Parse can check.
const MaxBits = 63

// Error describes a literal that could not be parsed or that does not fit in
// the requested slot. Min and Max give the valid range for the slot.
type Error struct {
	Text   string
	Bits   uint
	Signed bool
	Min    int64
	Max    int64
	Reason string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid number %q: %s, expected one in range from %d to %d", e.Text, e.Reason, e.Min, e.Max)
	}
	return fmt.Sprintf("invalid number %q, expected one in range from %d to %d", e.Text, e.Min, e.Max)
}

// Range returns the smallest and largest values that fit in a slot of the
// given width and signedness.
func Range(width uint, signed bool) (min, max int64) {
	if width == 0 {
		return 0, 0
	}
	if signed {
		return -1 << (width - 1), 1<<(width-1) - 1
	}
	return 0, 1<<width - 1
}

// Len returns the minimum number of bits needed to represent v. For signed
// values this includes the sign bit. Zero needs no bits.
func Len(v int64, signed bool) uint {
	switch {
	case v == 0:
		return 0
	case !signed:
		return uint(bits.Len64(uint64(v)))
	case v < 0:
		return uint(bits.Len64(^uint64(v))) + 1
	default:
		return uint(bits.Len64(uint64(v))) + 1
	}
}

// Parse parses s as an integer literal that must fit in a slot of width bits.
// Negative literals are only accepted when signed is true. Zero fits in every
// slot. The returned error, if any, is an *Error.
func Parse(s string, width uint, signed bool) (int64, error) {
	if width > MaxBits {
		panic("literal: slot width " + strconv.Itoa(int(width)) + " out of range")
	}
	min, max := Range(width, signed)
	fail := func(reason string) (int64, error) {
		return 0, &Error{Text: s, Bits: width, Signed: signed, Min: min, Max: max, Reason: reason}
	}

	digits, neg := s, false
	if strings.HasPrefix(digits, "-") {
		digits, neg = digits[1:], true
		if !signed {
			return fail("negative value for an unsigned operand")
		}
	} else {
		digits = strings.TrimPrefix(digits, "+")
	}

	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base, digits = 16, digits[2:]
		case 'b', 'B':
			base, digits = 2, digits[2:]
		case 'o', 'O':
			base, digits = 8, digits[2:]
		}
	}
	if strings.HasPrefix(digits, "_") && base == 10 {
		return fail("leading digit separator")
	}
	digits = strings.ReplaceAll(digits, "_", "")
	if digits == "" {
		return fail("missing digits")
	}

	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return fail("")
		}
		return fail("bad digits for base " + strconv.Itoa(base))
	}
	if u > 1<<MaxBits {
		return fail("")
	}

	v := int64(u)
	if neg {
		v = -v
	}
	if v != 0 && Len(v, signed) > width {
		return fail("")
	}
	return v, nil
}
