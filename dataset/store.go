/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikeb26/chessresults-scraper/chessresults"
	"github.com/mikeb26/chessresults-scraper/games"
)

const (
	TournamentsFile = "tournaments.csv"
	StartListsDir   = "start_lists"
	ResultsDir      = "results"
	GamesDir        = "games"

	startListSuffix = "_start_list.csv"
	resultsSuffix   = "_results.csv"
	gamesSuffix     = "_games.csv"
	gamesDBSuffix   = "_games.db"
)

// Store lays out the scraped data set under one directory:
//
//	tournaments.csv
//	start_lists/<country>_start_list.csv
//	results/<country>_results.csv
//	games/<country>_games.csv
//
// An existing per-country file marks that country as done.
type Store struct {
	dataDir string
}

// NewStore creates dataDir and its subdirectories if needed. A leading ~/
// is expanded to the user's home directory.
func NewStore(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	for _, dir := range []string{"", StartListsDir, ResultsDir, GamesDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, dir), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	return &Store{dataDir: dataDir}, nil
}

// countryFile keeps country codes from escaping the data directory.
func countryFile(country string, suffix string) string {
	country = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, strings.TrimSpace(country))
	if country == "" || country == "." || country == ".." {
		country = "unknown"
	}
	return country + suffix
}

func (s *Store) TournamentsPath() string {
	return filepath.Join(s.dataDir, TournamentsFile)
}

func (s *Store) StartListPath(country string) string {
	return filepath.Join(s.dataDir, StartListsDir, countryFile(country, startListSuffix))
}

func (s *Store) ResultsPath(country string) string {
	return filepath.Join(s.dataDir, ResultsDir, countryFile(country, resultsSuffix))
}

func (s *Store) GamesPath(country string) string {
	return filepath.Join(s.dataDir, GamesDir, countryFile(country, gamesSuffix))
}

func (s *Store) GamesDBPath(country string) string {
	return filepath.Join(s.dataDir, GamesDir, countryFile(country, gamesDBSuffix))
}

// Exists reports whether path is already present; used to skip countries
// finished by an earlier run.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileAtomic renders content through write into a temporary file next
// to path and renames it into place. A partial file is never visible under
// path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// AppendTournaments adds discovery tuples to tournaments.csv, writing the
// header when the file is new.
func (s *Store) AppendTournaments(refs []chessresults.TournamentRef) error {
	path := s.TournamentsPath()
	withHeader := !Exists(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %v: %w", path, err)
	}
	if err := WriteTournaments(f, refs, withHeader); err != nil {
		f.Close()
		return fmt.Errorf("writing %v: %w", path, err)
	}

	return f.Close()
}

func (s *Store) LoadTournaments() ([]chessresults.TournamentRef, error) {
	path := s.TournamentsPath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %v: %w", path, err)
	}
	defer f.Close()

	refs, err := ReadTournaments(f)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", path, err)
	}
	return refs, nil
}

func (s *Store) SaveRecords(path string, records []chessresults.Record) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return WriteRecords(w, records)
	})
	if err != nil {
		return fmt.Errorf("writing %v: %w", path, err)
	}
	return nil
}

func (s *Store) LoadRecords(path string) ([]string, []chessresults.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %v: %w", path, err)
	}
	defer f.Close()

	cols, records, err := ReadRecords(f)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %v: %w", path, err)
	}
	return cols, records, nil
}

func (s *Store) SaveGames(path string, gameList []games.GameRecord) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return WriteGames(w, gameList)
	})
	if err != nil {
		return fmt.Errorf("writing %v: %w", path, err)
	}
	return nil
}

func (s *Store) LoadGames(path string) ([]games.GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %v: %w", path, err)
	}
	defer f.Close()

	gameList, err := ReadGames(f)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %w", path, err)
	}
	return gameList, nil
}

// TournamentURLs returns the distinct tournament_url values of a records
// file in order of first appearance.
func (s *Store) TournamentURLs(path string) ([]string, error) {
	_, records, err := s.LoadRecords(path)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	for _, rec := range records {
		u, ok := rec.Get(chessresults.TournamentURLField)
		u = strings.TrimSpace(u)
		if !ok || u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

// StartListCountries lists the countries that have a start list file,
// sorted.
func (s *Store) StartListCountries() ([]string, error) {
	return s.countries(StartListsDir, startListSuffix)
}

// ResultCountries lists the countries that have a results file, sorted.
func (s *Store) ResultCountries() ([]string, error) {
	return s.countries(ResultsDir, resultsSuffix)
}

// GameCountries lists the countries that have a games file, sorted.
func (s *Store) GameCountries() ([]string, error) {
	return s.countries(GamesDir, gamesSuffix)
}

func (s *Store) countries(dir string, suffix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, dir))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") ||
			!strings.HasSuffix(name, suffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, suffix))
	}
	sort.Strings(out)

	return out, nil
}
