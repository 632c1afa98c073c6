package loctext

import (
	"strings"
	"unicode"
)

// DecodeValue decodes a single quoted, escaped value such as `"a\"b\n"`.
// Characters after the closing quote are ignored and a missing closing quote
// yields whatever was read. The second result is false when raw contains no
// quote character at all.
func DecodeValue(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	v, _, quoted := decodeValue(raw, false)
	return v, quoted
}

// decodeValue scans raw left to right. When stopAtComma is set, a comma seen
// before the opening quote ends the value so that an unquoted definition does
// not swallow the next one. It returns the decoded text, the number of bytes
// consumed and whether a quote character was seen.
func decodeValue(raw string, stopAtComma bool) (string, int, bool) {
	var (
		buf      strings.Builder
		started  bool
		inEscape bool
		quoted   bool
	)

	for n := 0; n < len(raw); n++ {
		c := raw[n]
		switch {
		case c == '\\':
			if inEscape {
				buf.WriteByte('\\')
				inEscape = false
			} else {
				inEscape = true
			}

		case c == '"':
			quoted = true
			switch {
			case inEscape:
				buf.WriteByte('"')
				inEscape = false
			case buf.Len() == 0 && !started:
				started = true
			default:
				return buf.String(), n + 1, true
			}

		case inEscape:
			inEscape = false
			switch c {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			default:
				// Unknown escapes keep the character and drop the backslash.
				buf.WriteByte(c)
			}

		case c == ',' && stopAtComma && !started:
			return buf.String(), n, quoted

		default:
			buf.WriteByte(c)
		}
	}

	return buf.String(), len(raw), quoted
}

// definitionError describes why a locale tail could not be decoded.
type definitionError struct {
	code WarningCode
	msg  string
}

// decodeDefinitions splits a locale tail into `locale="value"` definitions and
// decodes each into rec. A comma only separates definitions when it is not
// inside an open quoted value.
func decodeDefinitions(rec *TextRecord, tail string) *definitionError {
	for pos := 0; pos < len(tail); {
		rest := tail[pos:]

		sep := strings.IndexAny(rest, "=,")
		if sep < 0 || rest[sep] == ',' {
			end := len(rest)
			if sep >= 0 {
				end = sep
			}
			// Empty segments from stray or trailing commas are dropped.
			if seg := strings.TrimSpace(rest[:end]); seg != "" {
				return &definitionError{WarnMalformedLocale, "locale definition " + quote(seg) + " has no '='"}
			}
			pos += end + 1
			continue
		}

		locale := strings.TrimSpace(rest[:sep])
		if locale == "" {
			return &definitionError{WarnMalformedLocale, "locale definition has an empty locale code"}
		}

		after := rest[sep+1:]
		valueStart := sep + 1 + len(after) - len(strings.TrimLeftFunc(after, unicode.IsSpace))

		value, n, quoted := decodeValue(rest[valueStart:], true)
		if !quoted {
			return &definitionError{WarnUnquotedValue, "value for locale " + quote(locale) + " not properly quoted"}
		}
		rec.Set(locale, value)

		pos += valueStart + n
		if next := strings.IndexByte(tail[pos:], ','); next >= 0 {
			pos += next + 1
		} else {
			pos = len(tail)
		}
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }
