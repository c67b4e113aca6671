package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/importer"
)

func TestParseImport_Formats(t *testing.T) {
	bib := writeFile(t, "refs.bib", "@article{a, title={One}, year={2020}}\n@article{b, title={Two}}\n")
	drafts, errs, err := parseImport(bib, "", nil)
	if err != nil || len(errs) != 0 || len(drafts) != 2 {
		t.Errorf("bibtex: drafts=%d errs=%v err=%v", len(drafts), errs, err)
	}

	pp := writeFile(t, "export.json", `[{"_id": "1", "title": "Three", "published": {"year": 2019}}]`)
	drafts, errs, err = parseImport(pp, "", nil)
	if err != nil || len(errs) != 0 || len(drafts) != 1 || drafts[0].Year != 2019 {
		t.Errorf("paperpile: drafts=%+v errs=%v err=%v", drafts, errs, err)
	}

	if _, _, err := parseImport(bib, "endnote", nil); err == nil {
		t.Error("parseImport() should reject unknown formats")
	}
	if _, _, err := parseImport("/nonexistent/refs.bib", "", nil); err == nil {
		t.Error("parseImport() should fail for missing files")
	}
}

func TestImportDrafts_SkipsDuplicates(t *testing.T) {
	c := catalog.New()
	c.Insert(catalog.Draft{Title: "Existing Paper"})
	root := filepath.Dir(writeFile(t, "a.pdf", "%PDF-1.4"))

	result := importDrafts(c, []catalog.Draft{
		{Title: "existing   paper"},
		{Title: "New Paper"},
		{Title: "NEW PAPER"},
		{Title: "Another", Path: "a.pdf"},
	}, root)

	if result.Imported != 2 || result.Skipped != 2 {
		t.Errorf("imported %d, skipped %d, want 2 and 2", result.Imported, result.Skipped)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if result.Details[0].Action != "skip" || result.Details[1].Action != "import" || result.Details[2].Action != "skip" {
		t.Errorf("details = %+v", result.Details)
	}
	if result.Details[1].ID != 1 {
		t.Errorf("first import got id %d, want 1", result.Details[1].ID)
	}
}

func TestImportDrafts_SkipsInvalid(t *testing.T) {
	root := filepath.Dir(writeFile(t, "present.pdf", "%PDF-1.4"))
	drafts, errs := importer.ParsePaperpile([]byte(`[
		{"_id": "1", "title": "Ghost Paper", "attachments": [{"article_pdf": 1, "filename": "nowhere/ghost.pdf"}]},
		{"_id": "2", "title": "Present Paper", "attachments": [{"article_pdf": 1, "filename": "present.pdf"}]}
	]`), nil)
	if len(errs) != 0 || len(drafts) != 2 {
		t.Fatalf("ParsePaperpile() drafts=%d errs=%v", len(drafts), errs)
	}
	drafts = append(drafts, catalog.Draft{Title: "Far Future", Year: 3000})

	c := catalog.New()
	result := importDrafts(c, drafts, root)

	if result.Imported != 1 || result.Skipped != 2 {
		t.Fatalf("imported %d, skipped %d, want 1 and 2", result.Imported, result.Skipped)
	}
	if d := result.Details[0]; d.Action != "skip" || !strings.Contains(d.Reason, "ghost.pdf does not exist") {
		t.Errorf("ghost detail = %+v", d)
	}
	if d := result.Details[2]; d.Action != "skip" || !strings.Contains(d.Reason, "invalid year") {
		t.Errorf("future detail = %+v", d)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	p, _ := c.Get(result.Details[1].ID)
	if p.Path != "present.pdf" {
		t.Errorf("stored path = %q, want present.pdf", p.Path)
	}
}
