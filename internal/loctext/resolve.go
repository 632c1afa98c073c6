package loctext

// Source tells which rule of the fallback chain produced a resolved value.
type Source int

const (
	// SourceNone means the record has no locales; the value is empty.
	SourceNone Source = iota
	// SourceRequested means the requested locale was present.
	SourceRequested
	// SourceDefault means the default locale was used.
	SourceDefault
	// SourceFirst means neither locale was present and the first entry was
	// used as a last resort.
	SourceFirst
)

func (s Source) String() string {
	switch s {
	case SourceRequested:
		return "requested"
	case SourceDefault:
		return "default"
	case SourceFirst:
		return "first"
	default:
		return "none"
	}
}

// Resolve returns the text of rec for requested, falling back to def, then to
// the first locale in insertion order, then to "".
func Resolve(rec TextRecord, requested, def string) string {
	v, _ := ResolveWithSource(rec, requested, def)
	return v
}

// ResolveWithSource is Resolve that also reports which fallback applied.
func ResolveWithSource(rec TextRecord, requested, def string) (string, Source) {
	if rec.Len() == 0 {
		return "", SourceNone
	}
	if v, ok := rec.Get(requested); ok {
		return v, SourceRequested
	}
	if v, ok := rec.Get(def); ok {
		return v, SourceDefault
	}
	return rec.entries[0].Value, SourceFirst
}
