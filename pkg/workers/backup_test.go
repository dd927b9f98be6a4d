package workers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository := repositories.NewMemoryRepository()
	l := ledger.NewLedger(ledger.NewLedgerOptions{
		Repository: repository,
	})

	_, err := l.CreateCharacter(ctx, ledger.CreateCharacterParams{
		CommunityID: "guild-1",
		MemberID:    "member-1",
		Name:        "Livia",
		Origin:      "citizen",
		Primary:     "mind",
		Secondary:   "body",
	})
	require.NoError(t, err)

	directory := t.TempDir()
	worker := NewBackupWorker(NewBackupWorkerOptions{
		Ledger:     l,
		Repository: repository,
		Directory:  directory,
		Interval:   20 * time.Millisecond,
	})
	go worker.Start(ctx)

	var archives []string
	assert.Eventually(t, func() bool {
		archives, _ = filepath.Glob(filepath.Join(directory, "guild-1-*.json.zst"))
		return len(archives) > 0
	}, 5*time.Second, 20*time.Millisecond)
	require.NotEmpty(t, archives)

	f, err := os.Open(archives[0])
	require.NoError(t, err)
	defer f.Close()

	s, err := snapshot.ReadArchive(f)
	require.NoError(t, err)
	require.Len(t, s.Characters, 1)
	assert.Equal(t, "Livia", s.Characters[0].Name)

	// once the worker stops, no temp files are left behind
	cancel()
	assert.Eventually(t, func() bool {
		leftovers, err := filepath.Glob(filepath.Join(directory, "*.tmp-*"))
		return err == nil && len(leftovers) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
