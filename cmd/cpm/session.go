package main

import (
	"errors"
	"fmt"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
	"github.com/jialunli-sysu/cloudPapers/internal/venue"
)

// session is a loaded library: its config, venue table and catalog.
type session struct {
	root   string
	cfg    *config.Config
	venues *venue.Table
	cat    *catalog.Catalog
}

// errVenueTable marks failures reading the configured venue table.
var errVenueTable = errors.New("venue table")

// loadSession reads the library at root. Canonical venues from the venue
// table get display indexes in table order.
func loadSession(root string, cfg *config.Config) (*session, error) {
	s := &session{root: root, cfg: cfg}

	if path := cfg.ResolvedVenueTable(root); path != "" {
		t, err := venue.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errVenueTable, err)
		}
		t.Strict = cfg.StrictVenues
		s.venues = t
	}

	snap, err := storage.Load(config.SnapshotPath(root))
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Restore(snap, catalog.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	cat.ReserveVenues(s.venues.Labels())
	s.cat = cat

	logger.Debug().Str("library", root).Int("papers", cat.Len()).Msg("library loaded")
	return s, nil
}

// mustOpenSession finds and loads the library, exits on error.
func mustOpenSession() *session {
	root := mustFindLibrary()
	s, err := loadSession(root, mustLoadConfig(root))
	if err != nil {
		switch {
		case errors.Is(err, errVenueTable):
			exitWithError(ExitConfigError, "%v", err)
		default:
			exitWithError(ExitDataError, "loading library: %v", err)
		}
	}
	return s
}

// paperRoot is the directory relative paper paths resolve against.
func (s *session) paperRoot() string {
	return s.cfg.ResolvedPaperRoot(s.root)
}

// save writes the catalog back to the snapshot file.
func (s *session) save() error {
	return storage.Save(config.SnapshotPath(s.root), s.cat.Snapshot())
}

// mustSave saves the catalog, exits on error.
func (s *session) mustSave() {
	if err := s.save(); err != nil {
		exitWithError(ExitError, "saving library: %v", err)
	}
	logger.Debug().Int("papers", s.cat.Len()).Msg("library saved")
}

// mustGet returns the paper with the given id argument, exits if absent.
func (s *session) mustGet(arg string) catalog.Paper {
	id, err := parseID(arg)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	p, ok := s.cat.Get(id)
	if !ok {
		exitWithError(ExitNotFound, "paper not found: %d", id)
	}
	return p
}
