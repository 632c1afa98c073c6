package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"loctext/internal/loctext"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEFAULT_LOCALE", "en")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sample = "; ui strings\n#pragma ReplaceTMPInvalidChars true\nGREETING   =>  tr=\"Merhaba\",en=\"Hello\"\nSING => tr=\"Şarkı\"\n"

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "ui.loc", sample)
	bad := write(t, dir, "bad.loc", "#pragma broken\n")

	out, err := run(t, "check", good)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 records, 1 pragmas, 0 warnings, 0 findings") {
		t.Fatalf("output = %s", out)
	}

	out, err = run(t, "check", good, bad)
	if err == nil {
		t.Fatalf("expect failure for malformed pragma")
	}
	if !strings.Contains(out, "line 1, column 1") {
		t.Fatalf("output lacks position: %s", out)
	}
}

func TestFmtCommand(t *testing.T) {
	path := write(t, t.TempDir(), "ui.loc", sample)

	if _, err := run(t, "fmt", "-w", path); err != nil {
		t.Fatalf("fmt: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "#pragma ReplaceTMPInvalidChars true\nGREETING => tr=\"Merhaba\", en=\"Hello\"\nSING => tr=\"Şarkı\"\n"
	if string(data) != want {
		t.Fatalf("formatted = %q", data)
	}
}

func TestResolveCommand(t *testing.T) {
	path := write(t, t.TempDir(), "ui.loc", sample)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"resolve", path, "GREETING", "--locale", "tr"}, "Merhaba"},
		{[]string{"resolve", path, "GREETING", "--locale", "de"}, "Hello"},
		{[]string{"resolve", path, "SING", "-l", "en"}, "Sarki"},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Fatalf("%v = %q, want %q", tt.args, out, tt.want)
		}
	}

	if _, err := run(t, "resolve", path, "NOPE"); err == nil {
		t.Fatalf("expect error for unknown id")
	}
}

func TestResolveListAndAll(t *testing.T) {
	path := write(t, t.TempDir(), "ui.loc", sample)

	out, err := run(t, "resolve", "--list", path)
	if err != nil {
		t.Fatalf("resolve --list: %v", err)
	}
	if out != "GREETING\nSING\n" {
		t.Fatalf("ids = %q", out)
	}

	out, err = run(t, "resolve", "--all", path, "GREETING")
	if err != nil {
		t.Fatalf("resolve --all: %v", err)
	}
	if out != "tr\tMerhaba\nen\tHello\n" {
		t.Fatalf("locales = %q", out)
	}

	if _, err := run(t, "resolve", "--all", path, "NOPE"); err == nil {
		t.Fatalf("expect error for unknown id")
	}
	if _, err := run(t, "resolve", path); err == nil {
		t.Fatalf("expect error without id")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, map[string]int64{"tr": 3, "en": 5, "de": 3})
	if got := buf.String(); got != "en\t5\nde\t3\ntr\t3\n" {
		t.Fatalf("summary = %q", got)
	}
}

func TestMissingNeedsLocale(t *testing.T) {
	if _, err := run(t, "missing"); err == nil {
		t.Fatalf("expect error without locale or --summary")
	}
}

func TestExportFromDatabase(t *testing.T) {
	dsn := os.Getenv("LOCTEXT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LOCTEXT_TEST_DATABASE_URL not set")
	}
	t.Setenv("DATABASE_URL", dsn)

	dir := t.TempDir()
	write(t, dir, "ui.loc", sample)
	if _, err := run(t, "sync", "--skip-graph", dir); err != nil {
		t.Fatalf("sync: %v", err)
	}

	out, err := run(t, "export", "--from-db")
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if !strings.Contains(out, "ui.loc\n") {
		t.Fatalf("assets = %q", out)
	}

	out, err = run(t, "export", "--from-db", "--format", "loc", "ui.loc")
	if err != nil {
		t.Fatalf("export --from-db: %v", err)
	}
	want := "#pragma ReplaceTMPInvalidChars true\nGREETING => tr=\"Merhaba\", en=\"Hello\"\nSING => tr=\"Şarkı\"\n"
	if out != want {
		t.Fatalf("stored export = %q", out)
	}

	if _, err := run(t, "export", "--from-db", "no-such-asset.loc"); err == nil {
		t.Fatalf("expect error for unknown asset")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "menu.tsv", "id\ten\ttr\nSTART\tStart\tBaşla\n")
	outPath := filepath.Join(dir, "menu.loc")

	if _, err := run(t, "convert", in, outPath); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "START => en=\"Start\", tr=\"Başla\"\n" {
		t.Fatalf("converted = %q", data)
	}
}

func TestExportYAML(t *testing.T) {
	path := write(t, t.TempDir(), "ui.loc", sample)

	out, err := run(t, "export", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var got struct {
		Pragmas map[string]string            `yaml:"pragmas"`
		Records map[string]map[string]string `yaml:"records"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if got.Pragmas["ReplaceTMPInvalidChars"] != "true" || got.Records["GREETING"]["tr"] != "Merhaba" {
		t.Fatalf("yaml = %+v", got)
	}
	if strings.Index(out, "tr: Merhaba") > strings.Index(out, "en: Hello") {
		t.Fatalf("locale order lost:\n%s", out)
	}

	if _, err := run(t, "export", "--format", "xml", path); err == nil {
		t.Fatalf("expect unknown format error")
	}
}

func TestToYAMLKeepsStringsQuotedWhereNeeded(t *testing.T) {
	rec := loctext.NewTextRecord("FLAG")
	rec.Set("en", "yes")
	rec.Set("tr", "multi\nline")
	out, err := toYAML(&loctext.Document{Records: []loctext.TextRecord{rec}})
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]map[string]map[string]any
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := got["records"]["FLAG"]["en"].(string); !ok || v != "yes" {
		t.Fatalf("en = %#v", got["records"]["FLAG"]["en"])
	}
	if got["records"]["FLAG"]["tr"] != "multi\nline" {
		t.Fatalf("tr = %#v", got["records"]["FLAG"]["tr"])
	}
}
