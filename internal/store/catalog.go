package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"loctext/internal/glyph"
	"loctext/internal/loctext"
)

var (
	// ErrDuplicateID is returned when an identifier is already in the catalog.
	ErrDuplicateID = errors.New("duplicate text id")
	// ErrNotFound is returned for unknown identifiers or assets.
	ErrNotFound = errors.New("not found")
)

type entry struct {
	rec         loctext.TextRecord
	asset       string
	stripGlyphs bool
}

// Catalog holds parsed records from any number of assets for lookup by id.
// Identifiers are unique across the whole catalog.
type Catalog struct {
	mu            sync.RWMutex
	defaultLocale string
	entries       map[string]entry
}

// NewCatalog creates an empty catalog resolving against defaultLocale.
func NewCatalog(defaultLocale string) *Catalog {
	return &Catalog{
		defaultLocale: defaultLocale,
		entries:       make(map[string]entry),
	}
}

// Add inserts every record of doc under asset. Records whose id is already
// present are skipped; the returned error joins one ErrDuplicateID per skip.
func (c *Catalog) Add(asset string, doc *loctext.Document) error {
	strip := doc.Pragmas.Bool(glyph.ReplacePragma)

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, rec := range doc.Records {
		if prev, ok := c.entries[rec.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %q in %s, first defined in %s", ErrDuplicateID, rec.ID, asset, prev.asset))
			continue
		}
		c.entries[rec.ID] = entry{rec: rec.Clone(), asset: asset, stripGlyphs: strip}
	}
	return errors.Join(errs...)
}

// Remove drops every record that came from asset and returns how many.
func (c *Catalog) Remove(asset string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for id, e := range c.entries {
		if e.asset == asset {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Lookup resolves id for locale through the fallback chain. Assets carrying
// the ReplaceTMPInvalidChars pragma get diacritics stripped from the result.
func (c *Catalog) Lookup(id, locale string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("text %q: %w", id, ErrNotFound)
	}

	value, src := loctext.ResolveWithSource(e.rec, locale, c.defaultLocale)
	switch src {
	case loctext.SourceFirst:
		log.Warn().
			Str("id", id).
			Str("locale", locale).
			Str("default", c.defaultLocale).
			Str("used", e.rec.Codes()[0]).
			Msg("Neither requested nor default locale present, using first available")
	case loctext.SourceNone:
		log.Debug().Str("id", id).Msg("Record has no locales")
	}

	if e.stripGlyphs {
		value = glyph.Strip(value)
	}
	return value, nil
}

// Record returns a copy of the record stored for id.
func (c *Catalog) Record(id string) (loctext.TextRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return loctext.TextRecord{}, false
	}
	return e.rec.Clone(), true
}

// IDs returns all identifiers in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
