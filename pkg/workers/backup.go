package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
)

type BackupWorker struct {
	ledger     *ledger.Ledger
	repository repositories.Repository
	directory  string
	interval   time.Duration
}

type NewBackupWorkerOptions struct {
	Ledger     *ledger.Ledger
	Repository repositories.Repository
	Directory  string
	Interval   time.Duration
}

// NewBackupWorker creates a new BackupWorker.
// The worker periodically exports every community to a compressed
// snapshot archive in the backup directory.
func NewBackupWorker(opts NewBackupWorkerOptions) *BackupWorker {
	return &BackupWorker{
		ledger:     opts.Ledger,
		repository: opts.Repository,
		directory:  opts.Directory,
		interval:   opts.Interval,
	}
}

func (w *BackupWorker) Start(ctx context.Context) {
	if err := os.MkdirAll(w.directory, 0755); err != nil {
		log.Error("Failed to create backup directory %s: %v", w.directory, err)
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			w.backupCommunities(ctx, t)
		}
	}
}

func (w *BackupWorker) backupCommunities(ctx context.Context, t time.Time) {
	communities, err := w.repository.ListCommunities(ctx)
	if err != nil {
		log.Error("Failed to list communities: %v", err)
		return
	}

	for _, communityID := range communities {
		if err := w.backupCommunity(ctx, communityID, t); err != nil {
			log.Error("Failed to back up community %s: %v", communityID, err)
		}
	}
}

func (w *BackupWorker) backupCommunity(ctx context.Context, communityID string, t time.Time) error {
	if strings.ContainsAny(communityID, `/\`) {
		return fmt.Errorf("community id is not a safe file name")
	}

	s, err := w.ledger.ExportCommunity(ctx, communityID)
	if err != nil {
		return fmt.Errorf("failed to export community: %v", err)
	}

	name := fmt.Sprintf("%s-%d.json.zst", communityID, t.Unix())
	path := filepath.Join(w.directory, name)

	// write to a temp file first so a crash never leaves a partial archive
	tmp, err := os.CreateTemp(w.directory, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if err := snapshot.WriteArchive(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write archive: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %v", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename archive: %v", err)
	}

	log.Debug("Backed up community %s to %s", communityID, path)
	return nil
}
