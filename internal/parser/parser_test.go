package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loctext/internal/loctext"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLocParserParseAndReconstruct(t *testing.T) {
	path := writeFile(t, "ui.loc", "\xEF\xBB\xBF#pragma ReplaceTMPInvalidChars true\nOK => en=\"OK\", tr=\"Tamam\"\nCANCEL => en=\"Cancel\"\n")

	p := NewLocParser(false)
	if !p.CanParse(".loc") || !p.CanParse(".lang") || p.CanParse(".ini") {
		t.Fatalf("CanParse mismatch")
	}

	res, err := p.Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.FileType != "loc" || len(res.Document.Records) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Document.Pragmas["ReplaceTMPInvalidChars"] != "true" {
		t.Fatalf("BOM not stripped, pragmas = %v", res.Document.Pragmas)
	}

	out, err := p.Reconstruct(res)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	want := "#pragma ReplaceTMPInvalidChars true\nOK => en=\"OK\", tr=\"Tamam\"\nCANCEL => en=\"Cancel\"\n"
	if string(out) != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}

func TestLocParserStrictHeaders(t *testing.T) {
	path := writeFile(t, "bad.loc", "no separator here\n")
	if _, err := NewLocParser(true).Parse(path); err == nil {
		t.Fatalf("expect strict header error")
	}
	res, err := NewLocParser(false).Parse(path)
	if err != nil || len(res.Document.Warnings) != 1 {
		t.Fatalf("lenient parse: %v %+v", err, res)
	}
}

func TestINIParser(t *testing.T) {
	path := writeFile(t, "menu.ini", "; menu strings\n[en]\nSTART = Start\nQUIT = \"Quit\\ngame\"\n\n[tr]\nSTART=Başla\nstray line\n")

	res, err := NewINIParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	recs := res.Document.Records
	if len(recs) != 2 || recs[0].ID != "START" || recs[1].ID != "QUIT" {
		t.Fatalf("records = %+v", recs)
	}
	if got := recs[0].Codes(); len(got) != 2 || got[1] != "tr" {
		t.Fatalf("START locales = %v", got)
	}
	if v, _ := recs[1].Get("en"); v != "Quit\ngame" {
		t.Fatalf("QUIT = %q", v)
	}
	if len(res.Document.Warnings) != 1 || res.Document.Warnings[0].Line != 8 {
		t.Fatalf("warnings = %+v", res.Document.Warnings)
	}

	out, err := NewINIParser().Reconstruct(res)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	doc, err := loctext.Parse(string(out))
	if err != nil || len(doc.Records) != 2 || !doc.Records[1].Equal(recs[1]) {
		t.Fatalf("converted output does not re-parse: %v\n%s", err, out)
	}
}

func TestTSVParser(t *testing.T) {
	content := strings.Join([]string{
		"id\ten\ttr",
		"HELLO\tHello\tMerhaba",
		"TABBED\tcol\\tumn\t",
		"\torphan",
		"EMPTY\t\t",
		"",
	}, "\n")
	path := writeFile(t, "strings.tsv", content)

	res, err := NewTSVParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	recs := res.Document.Records
	if len(recs) != 2 {
		t.Fatalf("records = %+v", recs)
	}
	if v, _ := recs[1].Get("en"); v != "col\tumn" || recs[1].Has("tr") {
		t.Fatalf("TABBED = %+v", recs[1].Locales())
	}
	if len(res.Document.Warnings) != 2 {
		t.Fatalf("warnings = %+v", res.Document.Warnings)
	}
}

func TestTSVParserRequiresHeader(t *testing.T) {
	path := writeFile(t, "empty.tsv", "\n\n")
	if _, err := NewTSVParser().Parse(path); err == nil {
		t.Fatalf("expect missing header error")
	}
}
