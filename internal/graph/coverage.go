package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"

	"loctext/internal/loctext"
)

// MissingText is a text id with no value for a queried locale.
type MissingText struct {
	ID     string
	Assets []string
}

// Coverage maintains a Neo4j graph of which text ids exist in which locales:
//
//	(:Asset {name})-[:DEFINES]->(:Text {asset, id})-[:IN]->(:Locale {code})
//
// Text nodes belong to one asset, so an id defined in two assets keeps the
// locales of each independently.
type Coverage struct {
	driver neo4j.DriverWithContext
}

// NewCoverage creates a coverage graph on driver.
func NewCoverage(driver neo4j.DriverWithContext) *Coverage {
	return &Coverage{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (c *Coverage) EnsureSchema(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (a:Asset) REQUIRE a.name IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Text) REQUIRE (t.asset, t.id) IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (l:Locale) REQUIRE l.code IS UNIQUE",
	}
	for _, q := range constraints {
		if _, err := session.Run(ctx, q, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Coverage graph schema ensured")
	return nil
}

// coverageRows converts records to the parameter shape used by Upsert.
func coverageRows(records []loctext.TextRecord) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		codes := make([]any, 0, rec.Len())
		for _, code := range rec.Codes() {
			codes = append(codes, code)
		}
		rows = append(rows, map[string]any{"id": rec.ID, "locales": codes})
	}
	return rows
}

// Upsert replaces what the graph knows about asset with records.
func (c *Coverage) Upsert(ctx context.Context, asset string, records []loctext.TextRecord) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Drop the previous definition of this asset.
		if _, err := tx.Run(ctx, `
			MERGE (a:Asset {name: $asset})
			WITH a
			OPTIONAL MATCH (a)-[:DEFINES]->(t:Text {asset: $asset})
			DETACH DELETE t
		`, map[string]any{"asset": asset}); err != nil {
			return nil, fmt.Errorf("clear asset: %w", err)
		}

		_, err := tx.Run(ctx, `
			MATCH (a:Asset {name: $asset})
			UNWIND $rows AS row
			MERGE (t:Text {asset: $asset, id: row.id})
			MERGE (a)-[:DEFINES]->(t)
			WITH t, row
			UNWIND row.locales AS code
			MERGE (l:Locale {code: code})
			MERGE (t)-[:IN]->(l)
		`, map[string]any{"asset": asset, "rows": coverageRows(records)})
		if err != nil {
			return nil, fmt.Errorf("upsert texts: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("upsert coverage for %s: %w", asset, err)
	}

	log.Debug().Str("asset", asset).Int("records", len(records)).Msg("Coverage graph updated")
	return nil
}

// Missing returns the text ids with no value for locale, sorted by id.
func (c *Coverage) Missing(ctx context.Context, locale string) ([]MissingText, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (a:Asset)-[:DEFINES]->(t:Text)
		WHERE NOT (t)-[:IN]->(:Locale {code: $code})
		RETURN t.id AS id, collect(DISTINCT a.name) AS assets
		ORDER BY id
	`, map[string]any{"code": locale})
	if err != nil {
		return nil, fmt.Errorf("query missing texts: %w", err)
	}

	var missing []MissingText
	for result.Next(ctx) {
		record := result.Record()
		id, _ := record.Get("id")
		assets, _ := record.Get("assets")

		m := MissingText{ID: fmt.Sprintf("%v", id)}
		if list, ok := assets.([]any); ok {
			for _, a := range list {
				m.Assets = append(m.Assets, fmt.Sprintf("%v", a))
			}
		}
		missing = append(missing, m)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read missing texts: %w", err)
	}

	log.Debug().Str("locale", locale).Int("missing", len(missing)).Msg("Coverage query complete")
	return missing, nil
}

// Summary returns how many text ids each locale covers.
func (c *Coverage) Summary(ctx context.Context) (map[string]int64, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Text)-[:IN]->(l:Locale)
		RETURN l.code AS code, count(DISTINCT t.id) AS texts
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("query coverage summary: %w", err)
	}

	summary := make(map[string]int64)
	for result.Next(ctx) {
		record := result.Record()
		code, _ := record.Get("code")
		n, _ := record.Get("texts")
		count, _ := n.(int64)
		summary[fmt.Sprintf("%v", code)] = count
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read coverage summary: %w", err)
	}
	return summary, nil
}
