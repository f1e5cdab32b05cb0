package beancount

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/pathutil"
)

func newTestRepository(t *testing.T) (*FileSystemRepository, string) {
	t.Helper()
	root := t.TempDir()
	repo := NewFileSystemRepository(pathutil.New(pathutil.Config{LedgerRoot: root}))
	repo.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return repo, root
}

func topUp(day int) Transaction {
	return Transaction{
		Date:      time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC),
		Flag:      FlagCleared,
		Narration: "Top Up",
		Postings: []Posting{
			{Account: "Assets:UK:Freetrade:ISA:Checking", Amount: d("10"), Currency: "GBP"},
			{Account: "Income:UK:Freetrade:ISA:TopUp", Amount: d("-10"), Currency: "GBP"},
		},
	}
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-03", MonthKey(time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)))
}

func TestAppendTransaction(t *testing.T) {
	repo, root := newTestRepository(t)

	require.False(t, repo.MonthFileExists("2024-03"))
	require.NoError(t, repo.AppendTransaction("2024-03", topUp(1), "Top up"))
	require.NoError(t, repo.AppendTransaction("2024-03", topUp(2)))
	assert.True(t, repo.MonthFileExists("2024-03"))

	content, err := repo.ReadMonthFile("2024-03")
	require.NoError(t, err)
	assert.Equal(t, `; Freetrade activity for 2024-03
; Generated at 2024-01-01T00:00:00Z

; Top up
2024-03-01 * "Top Up"
    Assets:UK:Freetrade:ISA:Checking 10 GBP
    Income:UK:Freetrade:ISA:TopUp -10 GBP

2024-03-02 * "Top Up"
    Assets:UK:Freetrade:ISA:Checking 10 GBP
    Income:UK:Freetrade:ISA:TopUp -10 GBP

`, content)

	_, err = os.Stat(filepath.Join(root, "2024", "2024-03.beancount"))
	assert.NoError(t, err)
}

func TestEnsureMonthFileKeepsExistingContent(t *testing.T) {
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.AppendTransaction("2024-03", topUp(1)))
	before, err := repo.ReadMonthFile("2024-03")
	require.NoError(t, err)

	require.NoError(t, repo.EnsureMonthFile("2024-03"))
	after, err := repo.ReadMonthFile("2024-03")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReadMonthFileMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	content, err := repo.ReadMonthFile("2024-05")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestGetMonthFilesInYear(t *testing.T) {
	repo, root := newTestRepository(t)

	files, err := repo.GetMonthFilesInYear("2024")
	require.NoError(t, err)
	assert.Empty(t, files)

	require.NoError(t, repo.EnsureMonthFile("2024-11"))
	require.NoError(t, repo.EnsureMonthFile("2024-02"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "notes.txt"), nil, 0644))

	files, err = repo.GetMonthFilesInYear("2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02", "2024-11"}, files)
}

func TestInvalidMonthKey(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.Error(t, repo.EnsureMonthFile("2024-3"))
	assert.Error(t, repo.AppendTransaction("202403", topUp(1)))
	assert.False(t, repo.MonthFileExists("bad"))
}
