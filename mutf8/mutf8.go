// Package mutf8 converts between standard UTF-8 and Java's "Modified UTF-8".
//
// Modified UTF-8 differs from UTF-8 in two ways: U+0000 is written as the
// overlong pair C0 80, and code points above U+FFFF are written as a UTF-16
// surrogate pair with each half encoded as a 3-byte sequence (6 bytes in
// total instead of 4).
//
// Decode only accepts the canonical form, so any input it accepts is
// reproduced byte for byte by Encode.
package mutf8

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

var ErrInvalid = errors.New("mutf8: invalid modified UTF-8")

// EncodedLen returns the length of s once encoded.
func EncodedLen(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// Encode returns the Modified UTF-8 form of s. Invalid UTF-8 bytes in s are
// encoded as U+FFFD.
func Encode(s string) []byte {
	if isPlainASCII(s) {
		return []byte(s)
	}
	return Append(make([]byte, 0, EncodedLen(s)), s)
}

// Append appends the Modified UTF-8 form of s to b.
func Append(b []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			b = append(b, 0xC0, 0x80)
		case r < 0x80:
			b = append(b, byte(r))
		case r < 0x800:
			b = append(b, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			b = append3(b, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			b = append3(b, hi)
			b = append3(b, lo)
		}
	}
	return b
}

func append3(b []byte, r rune) []byte {
	return append(b, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// Decode converts Modified UTF-8 to a standard UTF-8 string.
func Decode(b []byte) (string, error) {
	if isPlainASCII(b) {
		return string(b), nil
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		r, n := decodeUnit(b[i:])
		if n == 0 {
			return "", ErrInvalid
		}
		i += n

		if utf16.IsSurrogate(r) {
			if r >= 0xDC00 {
				return "", ErrInvalid
			}
			lo, m := decodeUnit(b[i:])
			if m != 3 || lo < 0xDC00 || lo > 0xDFFF {
				return "", ErrInvalid
			}
			i += m
			r = utf16.DecodeRune(r, lo)
		}
		out = utf8.AppendRune(out, r)
	}
	return string(out), nil
}

// Valid reports whether b is canonical Modified UTF-8.
func Valid(b []byte) bool {
	_, err := Decode(b)
	return err == nil
}

// decodeUnit decodes one 1-, 2- or 3-byte unit. A zero length means the
// unit is malformed or not canonical.
func decodeUnit(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}

	c := b[0]
	switch {
	case c == 0:
		return 0, 0
	case c < 0x80:
		return rune(c), 1
	case c&0xE0 == 0xC0:
		if len(b) < 2 || b[1]&0xC0 != 0x80 {
			return 0, 0
		}
		r := rune(c&0x1F)<<6 | rune(b[1]&0x3F)
		if r != 0 && r < 0x80 {
			return 0, 0
		}
		return r, 2
	case c&0xF0 == 0xE0:
		if len(b) < 3 || b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
			return 0, 0
		}
		r := rune(c&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
		if r < 0x800 {
			return 0, 0
		}
		return r, 3
	}
	return 0, 0
}

func isPlainASCII[T string | []byte](s T) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] >= 0x80 {
			return false
		}
	}
	return true
}
