package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(filepath.Join(dir, "out"), filepath.Join(dir, "Reports"))
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, dir
}

func TestSaveJSON(t *testing.T) {
	s, dir := fixedStore(t)

	path, err := s.SaveJSON(map[string]any{"url": "https://example.com", "pages_analyzed": 2}, "cro_analysis")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "cro_analysis_20250102_030405.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"pages_analyzed\": 2")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com", decoded["url"])
}

func TestReportPath(t *testing.T) {
	s, dir := fixedStore(t)

	path, err := s.ReportPath("website_cro_report")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Reports", "website_cro_report_20250102_030405.pdf"), path)

	info, err := os.Stat(filepath.Join(dir, "Reports"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReportPathSameSecond(t *testing.T) {
	s, dir := fixedStore(t)

	first, err := s.ReportPath("cro_report")
	require.NoError(t, err)
	second, err := s.ReportPath("cro_report")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, "Reports", "cro_report_20250102_030405.pdf"), first)
	assert.Equal(t, filepath.Join(dir, "Reports", "cro_report_20250102_030405_2.pdf"), second)
}

func TestReportPathConcurrent(t *testing.T) {
	s, _ := fixedStore(t)

	const n = 20
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := s.ReportPath("cro_report")
			assert.NoError(t, err)
			paths <- path
		}()
	}
	wg.Wait()
	close(paths)

	seen := map[string]bool{}
	for p := range paths {
		assert.False(t, seen[p], p)
		seen[p] = true
	}
	assert.Len(t, seen, n)
}

func TestSaveJSONSameSecond(t *testing.T) {
	s, _ := fixedStore(t)

	first, err := s.SaveJSON([]int{1}, "cro_analysis")
	require.NoError(t, err)
	second, err := s.SaveJSON([]int{2}, "cro_analysis")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.JSONEq(t, "[1]", string(data))
}

func TestListReportsEmptyIsNotNil(t *testing.T) {
	s, _ := fixedStore(t)

	reports, err := s.ListReports()
	require.NoError(t, err)
	assert.NotNil(t, reports)

	data, err := json.Marshal(reports)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestListAndResolveReports(t *testing.T) {
	s, _ := fixedStore(t)

	reports, err := s.ListReports()
	require.NoError(t, err)
	assert.Empty(t, reports)

	path, err := s.ReportPath("cro_report")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.ReportsDir(), "notes.txt"), []byte("x"), 0o644))

	reports, err = s.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "cro_report_20250102_030405.pdf", reports[0].Name)
	assert.Equal(t, int64(8), reports[0].Size)

	resolved, err := s.ResolveReport("cro_report_20250102_030405.pdf")
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestResolveReportRejectsTraversal(t *testing.T) {
	s, _ := fixedStore(t)

	for _, name := range []string{"", "../secret.pdf", "a/b.pdf", `..\x.pdf`, ".hidden.pdf", "report.json"} {
		_, err := s.ResolveReport(name)
		assert.ErrorIs(t, err, ErrInvalidReportName, name)
	}

	_, err := s.ResolveReport("missing.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
