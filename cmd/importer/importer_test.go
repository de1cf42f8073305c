package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/infrastructure/repository/memory"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/id"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

const header = "id,season,competitionName,kickoffDateTime,round,homeTeam,awayTeam\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newIngester() *usecase.IngestionService {
	return usecase.NewIngestionService(memory.NewFixtureRepository(nil), id.NewUUIDGenerator(), usecase.IngestionConfig{}, logging.NewNop())
}

func TestImportFiles_KeepsOrderAndCountsFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.csv", header+"A1,2025,Premiership,2025-09-26T19:45:00Z,1,Bath Rugby,Bristol Bears\n"),
		writeFile(t, dir, "b.csv", header),
		filepath.Join(dir, "missing.csv"),
		writeFile(t, dir, "c.csv", header+"C1,2025,Premiership,2025-09-27T15:00:00Z,1,Saracens,Harlequins\nA1,2025,Premiership,2025-09-26T19:45:00Z,1,Bath Rugby,Bristol Bears\n"),
	}

	report, err := importFiles(context.Background(), newIngester(), paths, 3)
	require.NoError(t, err)
	require.Len(t, report.Files, 4)
	assert.Equal(t, 2, report.FailedCount)

	for i, path := range paths {
		assert.Equal(t, path, report.Files[i].File)
	}
	assert.True(t, report.Files[0].Result.Success)
	assert.Equal(t, "No data found in the CSV file", report.Files[1].Result.Message)
	assert.NotEmpty(t, report.Files[2].Error)
	assert.True(t, report.Files[3].Result.Success)
}

func TestImportFiles_DuplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	row := "A1,2025,Premiership,2025-09-26T19:45:00Z,1,Bath Rugby,Bristol Bears\n"
	paths := []string{
		writeFile(t, dir, "first.csv", header+row),
		writeFile(t, dir, "second.csv", header+row),
	}

	report, err := importFiles(context.Background(), newIngester(), paths, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files[0].Result.Count)
	assert.Equal(t, 0, report.Files[1].Result.Count)
	assert.Equal(t, 1, report.Files[1].Result.Duplicates)
}

func TestWriteSummaries_OneJSONPerLine(t *testing.T) {
	var buf bytes.Buffer
	err := writeSummaries(&buf, []fileSummary{
		{File: "a.csv", Result: usecase.IngestionResult{Success: true, Message: "Successfully processed 1 fixtures", Count: 1}},
		{File: "b.csv", Result: usecase.IngestionResult{Message: "No data found in the CSV file"}, Error: "empty input"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, sonic.UnmarshalString(lines[0], &first))
	assert.Equal(t, "a.csv", first["file"])
	assert.NotContains(t, first, "error")
	result := first["result"].(map[string]any)
	assert.EqualValues(t, 1, result["count"])
}

func TestValidateCommand_DryRun(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("UPTRACE_ENABLED", "false")
	dir := t.TempDir()
	path := writeFile(t, dir, "fixtures.csv", header+
		"A1,2025,Premiership,2025-09-26T19:45:00Z,1,Bath Rugby,Bristol Bears\n"+
		"A2,abc,Premiership,2025-09-26T19:45:00Z,1,Leinster,Munster\n")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var summary fileSummary
	require.NoError(t, sonic.UnmarshalString(strings.TrimSpace(out.String()), &summary))
	assert.True(t, summary.Result.Success)
	assert.Equal(t, 1, summary.Result.Count)
	assert.Equal(t, 1, summary.Result.InvalidCount)
	require.Len(t, summary.Result.InvalidRecords, 1)
	assert.Equal(t, 3, summary.Result.InvalidRecords[0].RowNumber)
}
