package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

var ErrInvalidReportName = errors.New("invalid report name")

// Store writes analysis runs as timestamp-named files. JSON dumps go to
// JSONDir and PDF reports to ReportsDir.
type Store struct {
	jsonDir    string
	reportsDir string
	now        func() time.Time
}

// ReportFile describes a generated report on disk.
type ReportFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func New(jsonDir, reportsDir string) *Store {
	if jsonDir == "" {
		jsonDir = "."
	}
	if reportsDir == "" {
		reportsDir = "Reports"
	}
	return &Store{jsonDir: jsonDir, reportsDir: reportsDir, now: time.Now}
}

func (s *Store) ReportsDir() string {
	return s.reportsDir
}

const maxNameAttempts = 1000

// reserve creates an empty <dir>/<prefix>_YYYYMMDD_HHMMSS.<ext> file and
// returns its path. When that name is taken within the same second, a
// _2, _3, ... suffix is appended.
func (s *Store) reserve(dir, prefix, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stem := fmt.Sprintf("%s_%s", prefix, s.now().Format(timestampLayout))
	for n := 1; n <= maxNameAttempts; n++ {
		name := stem + "." + ext
		if n > 1 {
			name = fmt.Sprintf("%s_%d.%s", stem, n, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("no free file name for %s in %s", stem, dir)
}

// SaveJSON writes v, indented, to <JSONDir>/<prefix>_YYYYMMDD_HHMMSS.json
// and returns the path.
func (s *Store) SaveJSON(v any, prefix string) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	path, err := s.reserve(s.jsonDir, prefix, "json")
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}

// ReportPath reserves a fresh <ReportsDir>/<prefix>_YYYYMMDD_HHMMSS.pdf
// path, creating the directory. Concurrent callers never get the same path.
func (s *Store) ReportPath(prefix string) (string, error) {
	path, err := s.reserve(s.reportsDir, prefix, "pdf")
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	return path, nil
}

// ResolveReport maps a bare report file name to its path. Names with path
// separators or that do not end in .pdf are rejected.
func (s *Store) ResolveReport(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") || filepath.Ext(name) != ".pdf" {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportName, name)
	}
	path := filepath.Join(s.reportsDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// ListReports returns the PDFs in ReportsDir, newest first. A missing
// directory yields an empty list.
func (s *Store) ListReports() ([]ReportFile, error) {
	reports := []ReportFile{}
	err := filepath.WalkDir(s.reportsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.reportsDir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != s.reportsDir {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".pdf" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		reports = append(reports, ReportFile{Name: d.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
