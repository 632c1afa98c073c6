// Package loctext reads and writes locale text files, a line-oriented table
// mapping each text id to per-locale strings:
//
//	; comment
//	#pragma ReplaceTMPInvalidChars true
//	GREETING => en="Hello, \"friend\"", tr="Merhaba"
//
// It also resolves a record for a locale through the fallback chain
// requested, default, first available.
package loctext

// LocaleValue is a single locale code and its text.
type LocaleValue struct {
	Locale string
	Value  string
}

// TextRecord is one entry of a locale text file: an identifier and its
// per-locale values in insertion order.
//
// Records are values. Set and Delete never write to storage an earlier copy
// may still hold, so a record can be assigned and shared freely.
type TextRecord struct {
	ID      string
	entries []LocaleValue
}

// NewTextRecord creates an empty record for id.
func NewTextRecord(id string) TextRecord {
	return TextRecord{ID: id}
}

func (r TextRecord) find(locale string) int {
	for i := range r.entries {
		if r.entries[i].Locale == locale {
			return i
		}
	}
	return -1
}

// Set stores value for locale. An existing locale keeps its position.
func (r *TextRecord) Set(locale, value string) {
	n := len(r.entries)
	if i := r.find(locale); i >= 0 {
		entries := make([]LocaleValue, n)
		copy(entries, r.entries)
		entries[i].Value = value
		r.entries = entries
		return
	}
	r.entries = append(r.entries[:n:n], LocaleValue{Locale: locale, Value: value})
}

// Get returns the value stored for locale.
func (r TextRecord) Get(locale string) (string, bool) {
	i := r.find(locale)
	if i < 0 {
		return "", false
	}
	return r.entries[i].Value, true
}

// Has reports whether locale has a value.
func (r TextRecord) Has(locale string) bool {
	return r.find(locale) >= 0
}

// Delete removes locale, preserving the order of the remaining entries.
func (r *TextRecord) Delete(locale string) {
	i := r.find(locale)
	if i < 0 {
		return
	}
	r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
}

// Len returns the number of locales.
func (r TextRecord) Len() int { return len(r.entries) }

// Locales returns a copy of the entries in insertion order.
func (r TextRecord) Locales() []LocaleValue {
	out := make([]LocaleValue, len(r.entries))
	copy(out, r.entries)
	return out
}

// Codes returns the locale codes in insertion order.
func (r TextRecord) Codes() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Locale
	}
	return out
}

// Clone returns a record that shares no storage with r.
func (r TextRecord) Clone() TextRecord {
	c := NewTextRecord(r.ID)
	for _, e := range r.entries {
		c.Set(e.Locale, e.Value)
	}
	return c
}

// Equal reports whether both records have the same id and the same
// locale/value pairs in the same order.
func (r TextRecord) Equal(o TextRecord) bool {
	if r.ID != o.ID || len(r.entries) != len(o.entries) {
		return false
	}
	for i := range r.entries {
		if r.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}
