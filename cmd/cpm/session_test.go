package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jialunli-sysu/cloudPapers/internal/bibtex"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// setupLibrary creates a library holding the given drafts.
func setupLibrary(t *testing.T, cfg *config.Config, drafts ...catalog.Draft) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(config.LibraryPath(root), 0755); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(root); err != nil {
		t.Fatal(err)
	}
	c := catalog.New()
	for _, d := range drafts {
		c.Insert(d)
	}
	if err := storage.Save(config.SnapshotPath(root), c.Snapshot()); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadSession(t *testing.T) {
	cfg := &config.Config{VenueTable: "venues.tsv"}
	root := setupLibrary(t, cfg, catalog.Draft{Title: "Attention", Venue: "neurips", Year: 2017})
	table := "NIPS\tNeurIPS\nInternational Conference on Machine Learning\tICML\n"
	if err := os.WriteFile(filepath.Join(root, "venues.tsv"), []byte(table), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := loadSession(root, cfg)
	if err != nil {
		t.Fatalf("loadSession() error = %v", err)
	}
	if s.cat.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.cat.Len())
	}
	if got := s.venues.Canonical("NIPS"); got != "neurips" {
		t.Errorf("Canonical(NIPS) = %q, want neurips", got)
	}

	// Only venues with papers are registered; table order fixes indexes.
	venues := s.cat.Venues()
	if len(venues) != 1 || venues[0].Label != "neurips" || venues[0].Index != 0 {
		t.Errorf("Venues() = %+v", venues)
	}

	id := s.cat.Insert(catalog.Draft{Title: "Adam", Venue: "icml"})
	if err := s.save(); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	again, err := loadSession(root, cfg)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	p, ok := again.cat.Get(id)
	if !ok || p.VenueLabel() != "icml" {
		t.Errorf("reloaded paper = %+v, %v", p, ok)
	}
	if e, ok := again.cat.Lookup(catalog.KindVenue, "icml"); !ok || e.Index() != 1 {
		t.Errorf("icml index = %v, want 1", e)
	}
}

func TestLoadSession_Errors(t *testing.T) {
	root := setupLibrary(t, &config.Config{})

	_, err := loadSession(root, &config.Config{VenueTable: "missing.tsv"})
	if err == nil || !strings.Contains(err.Error(), "venue table") {
		t.Errorf("missing venue table: error = %v", err)
	}

	corrupt := `{"version":99,"next_id":0}` + "\n"
	if err := os.WriteFile(config.SnapshotPath(root), []byte(corrupt), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSession(root, &config.Config{}); err == nil {
		t.Error("loadSession() should reject an unsupported snapshot version")
	}
}

func TestFilterIDs(t *testing.T) {
	root := setupLibrary(t, &config.Config{},
		catalog.Draft{Title: "a", Authors: []string{"Vaswani, Ashish"}, Venue: "neurips", Year: 2017, Read: true, Rating: 5},
		catalog.Draft{Title: "b", Venue: "icml", Year: 2017, Tags: []string{"nlp"}, Code: true},
		catalog.Draft{Title: "c", Venue: "icml", Year: 2019, Rating: 5},
	)
	s, err := loadSession(root, &config.Config{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		facet string
		rest  []string
		want  []catalog.ID
	}{
		{"venue", []string{"ICML"}, []catalog.ID{1, 2}},
		{"author", []string{"Ashish Vaswani"}, []catalog.ID{0}},
		{"tag", []string{"nlp"}, []catalog.ID{1}},
		{"year", []string{"2017"}, []catalog.ID{0, 1}},
		{"rating", []string{"5"}, []catalog.ID{0, 2}},
		{"unread", nil, []catalog.ID{1, 2}},
		{"code", nil, []catalog.ID{1}},
		{"dataset", []string{"imagenet"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.facet, func(t *testing.T) {
			got, err := filterIDs(s, tt.facet, tt.rest)
			if err != nil {
				t.Fatalf("filterIDs() error = %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("filterIDs(%s, %v) = %v, want %v", tt.facet, tt.rest, got, tt.want)
			}
		})
	}

	for _, bad := range [][]string{{"venue"}, {"year", "soon"}, {"color", "red"}} {
		if _, err := filterIDs(s, bad[0], bad[1:]); err == nil {
			t.Errorf("filterIDs(%v) should fail", bad)
		}
	}

	resp := newRowsResponse(s.cat, []catalog.ID{0, 1, 2})
	if resp.Count != 3 || resp.Read != 1 {
		t.Errorf("progress = %d/%d, want 1/3", resp.Read, resp.Count)
	}
	filters := newFiltersResponse(s.cat)
	if filters.Unread != 2 || filters.Code != 1 || !reflect.DeepEqual(filters.Years, []int{2017, 2019}) {
		t.Errorf("filters = %+v", filters)
	}
}

func TestReparseDraft(t *testing.T) {
	raw := `@inproceedings{v17,
  title = {Attention Is All You Need},
  author = {Vaswani, Ashish and Shazeer, Noam},
  booktitle = {NeurIPS},
  year = {2017}
}`
	c := catalog.New()
	id := c.Insert(bibtex.Extract(raw, nil))
	p, _ := c.Get(id)

	// Unchanged extraction
	if _, changed := reparseDraft(p.Draft(), bibtex.Extract(raw, nil)); changed {
		t.Error("reparsing the same citation should not report a change")
	}

	// Personal fields survive while citation fields change
	d := p.Draft()
	d.Tags = []string{"nlp"}
	d.Rating = 5
	edited := strings.Replace(raw, "{NeurIPS}", "{ICML}", 1)
	next, changed := reparseDraft(d, bibtex.Extract(edited, nil))
	if !changed {
		t.Fatal("venue change not detected")
	}
	if next.Venue != "icml" || next.Rating != 5 || !reflect.DeepEqual(next.Tags, []string{"nlp"}) {
		t.Errorf("reparseDraft() = %+v", next)
	}
}

func TestArchiveLibrary(t *testing.T) {
	root := setupLibrary(t, &config.Config{}, catalog.Draft{Title: "kept"})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	path, err := archiveLibrary(root, now)
	if err != nil {
		t.Fatalf("archiveLibrary() error = %v", err)
	}
	if filepath.Dir(path) != config.ArchivesPath(root) {
		t.Errorf("archive path = %s", path)
	}
	s, err := storage.LoadArchive(path)
	if err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}
	if len(s.Papers) != 1 || s.Papers[0].Title != "kept" {
		t.Errorf("archived papers = %+v", s.Papers)
	}
}

func TestReplaceLibrary(t *testing.T) {
	root := setupLibrary(t, &config.Config{}, catalog.Draft{Title: "old paper"})
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.DBPath(root), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	c := catalog.New()
	c.Insert(catalog.Draft{Title: "new paper"})
	c.Insert(catalog.Draft{Title: "another paper"})
	local := filepath.Join(t.TempDir(), "saved"+storage.ArchiveExt)
	if err := storage.SaveArchive(local, c.Snapshot()); err != nil {
		t.Fatal(err)
	}
	snap, err := storage.LoadArchive(local)
	if err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}

	archive, err := replaceLibrary(root, snap, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("replaceLibrary() error = %v", err)
	}

	current, err := storage.Load(config.SnapshotPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(current.Papers) != 2 || current.Papers[0].Title != "new paper" {
		t.Errorf("library papers = %+v", current.Papers)
	}
	previous, err := storage.LoadArchive(archive)
	if err != nil {
		t.Fatalf("LoadArchive(previous) error = %v", err)
	}
	if len(previous.Papers) != 1 || previous.Papers[0].Title != "old paper" {
		t.Errorf("archived papers = %+v", previous.Papers)
	}
	if _, err := os.Stat(config.DBPath(root)); !os.IsNotExist(err) {
		t.Errorf("search database should be removed, stat error = %v", err)
	}
}

func TestReplaceLibrary_RejectsCorruptSnapshot(t *testing.T) {
	root := setupLibrary(t, &config.Config{}, catalog.Draft{Title: "old paper"})

	bad := &catalog.Snapshot{Version: catalog.SnapshotVersion, NextID: 1, Papers: []catalog.Record{{ID: 5}}}
	_, err := replaceLibrary(root, bad, time.Now())
	if !errors.Is(err, catalog.ErrCorruptSnapshot) {
		t.Fatalf("replaceLibrary() error = %v, want ErrCorruptSnapshot", err)
	}

	current, err := storage.Load(config.SnapshotPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(current.Papers) != 1 || current.Papers[0].Title != "old paper" {
		t.Errorf("library changed: %+v", current.Papers)
	}
	if _, err := os.Stat(config.ArchivesPath(root)); !os.IsNotExist(err) {
		t.Error("nothing should be archived when the snapshot is rejected")
	}
}

func TestRebuildIndex(t *testing.T) {
	root := setupLibrary(t, &config.Config{},
		catalog.Draft{Title: "Attention"},
		catalog.Draft{Title: "Adam"},
	)
	s, err := loadSession(root, &config.Config{})
	if err != nil {
		t.Fatal(err)
	}

	count, err := rebuildIndex(s)
	if err != nil {
		t.Fatalf("rebuildIndex() error = %v", err)
	}
	if count != 2 {
		t.Errorf("rebuildIndex() = %d, want 2", count)
	}
}

func TestAuthorNames(t *testing.T) {
	c := catalog.New()
	id := c.Insert(catalog.Draft{Authors: []string{"Vaswani, Ashish", "Shazeer"}})
	p, _ := c.Get(id)

	if got, want := authorNames(p.Citation.Authors), "ashish vaswani, shazeer"; got != want {
		t.Errorf("authorNames() = %q, want %q", got, want)
	}
}

func TestNewLogger(t *testing.T) {
	defer func() { logJSON, verbose = false, false }()

	var buf bytes.Buffer
	logJSON, verbose = true, true
	log := newLogger(&buf)
	log.Debug().Msg("library loaded")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"message":"library loaded"`) {
		t.Errorf("JSON log line = %q", buf.String())
	}

	buf.Reset()
	logJSON = false
	log = newLogger(&buf)
	log.Debug().Msg("library loaded")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "library loaded") {
		t.Errorf("console log line = %q", buf.String())
	}
}
