package nbt

import (
	"strconv"
	"strings"
)

// Stringify renders tag as SNBT, the text form used by commands. It is
// meant for display; numbers keep their type suffixes so the output reads
// back with the same types.
func Stringify(tag Tag) string {
	var sb strings.Builder
	writeSNBT(&sb, tag)
	return sb.String()
}

func writeSNBT(sb *strings.Builder, tag Tag) {
	switch v := tag.(type) {
	case End:
		sb.WriteString("END")
	case Byte:
		sb.WriteString(strconv.Itoa(int(v)))
		sb.WriteByte('b')
	case Short:
		sb.WriteString(strconv.Itoa(int(v)))
		sb.WriteByte('s')
	case Int:
		sb.WriteString(strconv.Itoa(int(v)))
	case Long:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
		sb.WriteByte('L')
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		sb.WriteByte('f')
	case Double:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
		sb.WriteByte('d')
	case String:
		writeQuoted(sb, string(v))
	case ByteArray:
		sb.WriteString("[B;")
		for i, x := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(x)))
			sb.WriteByte('B')
		}
		sb.WriteByte(']')
	case IntArray:
		sb.WriteString("[I;")
		for i, x := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(x)))
		}
		sb.WriteByte(']')
	case LongArray:
		sb.WriteString("[L;")
		for i, x := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(x, 10))
			sb.WriteByte('L')
		}
		sb.WriteByte(']')
	case List:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeSNBT(sb, item)
		}
		sb.WriteByte(']')
	case Compound:
		sb.WriteByte('{')
		for i, nt := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, nt.Name)
			sb.WriteByte(':')
			writeSNBT(sb, nt.Tag)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

func writeKey(sb *strings.Builder, name string) {
	if name != "" && strings.IndexFunc(name, func(r rune) bool { return !isBareKeyRune(r) }) < 0 {
		sb.WriteString(name)
		return
	}
	writeQuoted(sb, name)
}

func isBareKeyRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
		r == '_' || r == '-' || r == '.' || r == '+'
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
