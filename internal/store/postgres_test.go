package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"loctext/internal/loctext"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("LOCTEXT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LOCTEXT_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewPostgresStore(testPool(t))
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	const asset = "test/roundtrip.loc"
	in := doc(t, "#pragma ReplaceTMPInvalidChars true\nB => tr=\"iki\", en=\"two\"\nA => en=\"one\\n\\\"1\\\"\"\n")

	changed, err := s.Save(ctx, asset, in)
	if err != nil || !changed {
		t.Fatalf("save: %v, changed=%v", err, changed)
	}
	changed, err = s.Save(ctx, asset, in)
	if err != nil || changed {
		t.Fatalf("second save: %v, changed=%v", err, changed)
	}

	out, err := s.Load(ctx, asset)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := loctext.SerializeDocument(in)
	got, _ := loctext.SerializeDocument(out)
	if got != want {
		t.Fatalf("loaded document differs:\n%s\nwant\n%s", got, want)
	}

	assets, err := s.Assets(ctx)
	if err != nil {
		t.Fatalf("assets: %v", err)
	}
	found := false
	for _, a := range assets {
		found = found || a == asset
	}
	if !found {
		t.Fatalf("asset missing from %v", assets)
	}

	if _, err := s.Load(ctx, "test/missing.loc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
