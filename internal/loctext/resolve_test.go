package loctext

import "testing"

func record(id string, pairs ...string) TextRecord {
	r := NewTextRecord(id)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func TestResolveFallbackChain(t *testing.T) {
	tests := []struct {
		name      string
		rec       TextRecord
		requested string
		def       string
		want      string
		source    Source
	}{
		{"empty record", record("X"), "en", "en", "", SourceNone},
		{"exact", record("X", "en", "Hello", "tr", "Merhaba"), "tr", "en", "Merhaba", SourceRequested},
		{"default", record("X", "de", "Hallo", "en", "Hello"), "fr", "en", "Hello", SourceDefault},
		{"first entry", record("X", "tr", "merhaba"), "en", "en", "merhaba", SourceFirst},
		{"first in insertion order", record("X", "ja", "こんにちは", "de", "Hallo"), "fr", "en", "こんにちは", SourceFirst},
		{"empty value still exact", record("X", "en", "", "tr", "x"), "en", "tr", "", SourceRequested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := ResolveWithSource(tt.rec, tt.requested, tt.def)
			if got != tt.want || src != tt.source {
				t.Fatalf("got (%q, %s), want (%q, %s)", got, src, tt.want, tt.source)
			}
			if plain := Resolve(tt.rec, tt.requested, tt.def); plain != tt.want {
				t.Fatalf("Resolve = %q", plain)
			}
		})
	}
}

func TestTextRecordOrdering(t *testing.T) {
	r := record("X", "en", "1", "tr", "2", "de", "3")
	r.Set("en", "one")
	if got := r.Codes(); len(got) != 3 || got[0] != "en" || got[1] != "tr" || got[2] != "de" {
		t.Fatalf("codes = %v", got)
	}
	if v, _ := r.Get("en"); v != "one" {
		t.Fatalf("en = %q", v)
	}

	r.Delete("tr")
	if got := r.Codes(); len(got) != 2 || got[0] != "en" || got[1] != "de" {
		t.Fatalf("codes after delete = %v", got)
	}
	if v, ok := r.Get("de"); !ok || v != "3" {
		t.Fatalf("de = %q, %v", v, ok)
	}
	if r.Has("tr") {
		t.Fatalf("tr should be gone")
	}

	c := r.Clone()
	c.Set("de", "changed")
	if v, _ := r.Get("de"); v != "3" {
		t.Fatalf("clone shares storage")
	}
	if r.Equal(c) {
		t.Fatalf("records should differ")
	}
}

func TestTextRecordCopyIsIndependent(t *testing.T) {
	a := record("X", "en", "hello")
	b := a
	b.Set("en", "changed")
	b.Set("tr", "merhaba")

	if v, _ := a.Get("en"); v != "hello" {
		t.Fatalf("original en = %q", v)
	}
	if a.Has("tr") || a.Len() != 1 {
		t.Fatalf("original gained a locale: %v", a.Codes())
	}
	if _, ok := a.Get("tr"); ok {
		t.Fatalf("original reports tr")
	}
	if got := Resolve(a, "tr", "de"); got != "hello" {
		t.Fatalf("Resolve(original) = %q", got)
	}
	if got := Resolve(b, "tr", "en"); got != "merhaba" {
		t.Fatalf("Resolve(copy) = %q", got)
	}

	c := record("Y", "en", "1", "tr", "2", "de", "3")
	d := c
	d.Delete("en")
	d.Set("fr", "4")
	if got := c.Codes(); len(got) != 3 || got[0] != "en" || got[1] != "tr" || got[2] != "de" {
		t.Fatalf("original codes = %v", got)
	}
	if v, _ := c.Get("de"); v != "3" {
		t.Fatalf("original de = %q", v)
	}
}

func TestParseDuplicateLocaleKeepsPosition(t *testing.T) {
	doc := parseQuiet(t, `X => en="a", tr="b", en="c"`)
	r := doc.Records[0]
	if got := r.Codes(); len(got) != 2 || got[0] != "en" {
		t.Fatalf("codes = %v", got)
	}
	if v, _ := r.Get("en"); v != "c" {
		t.Fatalf("en = %q", v)
	}
}
