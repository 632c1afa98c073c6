package lint

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"loctext/internal/interpolation"
	"loctext/internal/loctext"
)

// Rule names a lint check.
type Rule string

const (
	RuleLocaleCode   Rule = "locale-code"
	RulePlaceholders Rule = "placeholders"
	RuleDuplicateID  Rule = "duplicate-id"
	RuleEmptyValue   Rule = "empty-value"
)

// Finding is a single lint result.
type Finding struct {
	ID     string
	Locale string
	Rule   Rule
	Msg    string
}

func (f Finding) String() string {
	if f.Locale != "" {
		return fmt.Sprintf("%s [%s] %s: %s", f.ID, f.Locale, f.Rule, f.Msg)
	}
	return fmt.Sprintf("%s %s: %s", f.ID, f.Rule, f.Msg)
}

// Check inspects records for problems the format itself does not reject:
// locale codes that are not BCP 47 tags, values whose placeholders differ from
// the record's first locale, repeated ids and empty values.
func Check(records []loctext.TextRecord) []Finding {
	var findings []Finding
	seen := make(map[string]int, len(records))
	badCodes := make(map[string]bool)

	for _, rec := range records {
		seen[rec.ID]++
		if seen[rec.ID] == 2 {
			findings = append(findings, Finding{ID: rec.ID, Rule: RuleDuplicateID, Msg: "identifier defined more than once"})
		}

		entries := rec.Locales()
		for i, e := range entries {
			if _, err := language.Parse(e.Locale); err != nil && !badCodes[e.Locale] {
				badCodes[e.Locale] = true
				findings = append(findings, Finding{
					ID:     rec.ID,
					Locale: e.Locale,
					Rule:   RuleLocaleCode,
					Msg:    fmt.Sprintf("not a valid language tag: %v", err),
				})
			}

			if strings.TrimSpace(e.Value) == "" {
				findings = append(findings, Finding{ID: rec.ID, Locale: e.Locale, Rule: RuleEmptyValue, Msg: "value is empty"})
				continue
			}

			if i > 0 && !interpolation.SameSet(entries[0].Value, e.Value) {
				findings = append(findings, Finding{
					ID:     rec.ID,
					Locale: e.Locale,
					Rule:   RulePlaceholders,
					Msg: fmt.Sprintf("placeholders %s differ from %s %s",
						describe(e.Value), entries[0].Locale, describe(entries[0].Value)),
				})
			}
		}
	}

	return findings
}

func describe(text string) string {
	set := interpolation.Set(text)
	keys := make([]string, 0, len(set))
	for k, n := range set {
		if n > 1 {
			k = fmt.Sprintf("%s×%d", k, n)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "[" + strings.Join(keys, " ") + "]"
}
