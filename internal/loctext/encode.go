package loctext

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

// EncodeValue quotes and escapes v so that DecodeValue returns it unchanged.
func EncodeValue(v string) string {
	return `"` + valueEscaper.Replace(v) + `"`
}

// Serialize renders records in the text format, one line per record.
func Serialize(records []TextRecord) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, nil, records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SerializeDocument renders the pragmas of doc, sorted by key, followed by its
// records.
func SerializeDocument(doc *Document) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, doc.Pragmas, doc.Records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Encode writes pragmas and records to w. Records without locales are
// written as a bare header and will not survive a re-parse.
func Encode(w io.Writer, pragmas PragmaTable, records []TextRecord) error {
	bw := bufio.NewWriter(w)

	keys := make([]string, 0, len(pragmas))
	for k := range pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := checkPragma(k, pragmas[k]); err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s %s %s\n", pragmaDirective, k, pragmas[k])
	}

	for _, rec := range records {
		if err := checkID(rec.ID); err != nil {
			return err
		}
		bw.WriteString(rec.ID)
		bw.WriteString(" " + headerSeparator + " ")
		for i, e := range rec.entries {
			if err := checkLocale(rec.ID, e.Locale); err != nil {
				return err
			}
			if i > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(e.Locale)
			bw.WriteByte('=')
			bw.WriteString(EncodeValue(e.Value))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func checkID(id string) error {
	switch {
	case id == "", strings.TrimSpace(id) != id:
		return fmt.Errorf("%w: %q is empty or padded with whitespace", ErrUnencodableID, id)
	case strings.Contains(id, headerSeparator), strings.ContainsAny(id, "\n\r"):
		return fmt.Errorf("%w: %q contains %q or a line break", ErrUnencodableID, id, headerSeparator)
	case id[0] == commentMarker, strings.HasPrefix(id, pragmaDirective):
		return fmt.Errorf("%w: %q would be read as a comment or pragma", ErrUnencodableID, id)
	}
	return nil
}

func checkLocale(id, locale string) error {
	if locale == "" || strings.ContainsAny(locale, `=,"\`) || strings.IndexFunc(locale, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q in record %q", ErrUnencodableLocale, locale, id)
	}
	return nil
}

func checkPragma(key, value string) error {
	for _, s := range []string{key, value} {
		if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: %q = %q", ErrUnencodablePragma, key, value)
		}
	}
	return nil
}
