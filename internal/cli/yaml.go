package cli

import (
	"sort"

	"gopkg.in/yaml.v3"

	"loctext/internal/loctext"
)

// toYAML renders doc as a YAML mapping, keeping record and locale order:
//
//	pragmas:
//	  ReplaceTMPInvalidChars: "true"
//	records:
//	  GREETING:
//	    en: Hello
func toYAML(doc *loctext.Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if len(doc.Pragmas) > 0 {
		keys := make([]string, 0, len(doc.Pragmas))
		for k := range doc.Pragmas {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pragmas := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			pragmas.Content = append(pragmas.Content, str(k), str(doc.Pragmas[k]))
		}
		root.Content = append(root.Content, str("pragmas"), pragmas)
	}

	records := &yaml.Node{Kind: yaml.MappingNode}
	for _, rec := range doc.Records {
		locales := &yaml.Node{Kind: yaml.MappingNode}
		for _, lv := range rec.Locales() {
			locales.Content = append(locales.Content, str(lv.Locale), str(lv.Value))
		}
		records.Content = append(records.Content, str(rec.ID), locales)
	}
	root.Content = append(root.Content, str("records"), records)

	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
