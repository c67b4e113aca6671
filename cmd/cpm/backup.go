package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jialunli-sysu/cloudPapers/internal/backup"
	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
	"github.com/jialunli-sysu/cloudPapers/internal/config"
	"github.com/jialunli-sysu/cloudPapers/internal/storage"
)

var backupTimeout time.Duration

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the library to S3-compatible storage",
	Long: `Push, pull and list compressed library snapshots in an S3-compatible
bucket (MinIO, AWS S3, ...).

The bucket is configured in the global config:
  backup:
    endpoint: s3.amazonaws.com
    bucket: my-papers
    prefix: laptop

Credentials come from CPM_S3_ACCESS_KEY and CPM_S3_SECRET_KEY (a .env
file in the working directory is read), or from backup.access_key and
backup.secret_key.`,
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a snapshot of the library",
	Args:  cobra.NoArgs,
	RunE:  runBackupPush,
}

var backupPullCmd = &cobra.Command{
	Use:   "pull [name]",
	Short: "Replace the library with a stored snapshot (default: newest)",
	Long: `Replace the library with a stored snapshot, the newest one unless a
name is given. The current library is first archived under
.cloudpapers/archives/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupPull,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Replace the library with a local archive",
	Long: `Replace the library with a local compressed snapshot, such as one
written to .cloudpapers/archives/ by backup pull. The current library is
archived first.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

func init() {
	// Load .env file if present (for CPM_S3_ACCESS_KEY, CPM_S3_SECRET_KEY)
	_ = godotenv.Load()

	backupCmd.PersistentFlags().DurationVar(&backupTimeout, "timeout", 2*time.Minute, "Timeout for the whole operation")
	backupCmd.AddCommand(backupPushCmd, backupPullCmd, backupRestoreCmd, backupListCmd)
	rootCmd.AddCommand(backupCmd)
}

// mustBackupManager connects to the configured bucket, exits on error.
func mustBackupManager() *backup.Manager {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	store, err := backup.Dial(global.Backup)
	if err != nil {
		if errors.Is(err, config.ErrBackupNotConfigured) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return backup.NewManager(store, logger)
}

// BackupResult is the response for backup push and pull.
type BackupResult struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Papers  int    `json:"papers"`
	Archive string `json:"archive,omitempty"`
}

func runBackupPush(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	m := mustBackupManager()

	ctx, cancel := context.WithTimeout(cmd.Context(), backupTimeout)
	defer cancel()

	snap := s.cat.Snapshot()
	name, err := m.Push(ctx, snap)
	if err != nil {
		exitWithError(ExitError, "pushing snapshot: %v", err)
	}

	if humanOutput {
		fmt.Printf("Pushed %d papers as %s\n", len(snap.Papers), name)
	} else {
		outputJSON(BackupResult{Status: "pushed", Name: name, Papers: len(snap.Papers)})
	}
	return nil
}

func runBackupPull(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()
	m := mustBackupManager()

	ctx, cancel := context.WithTimeout(cmd.Context(), backupTimeout)
	defer cancel()

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	snap, name, err := m.Pull(ctx, name)
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "pulling snapshot: %v", err)
	}
	archive, err := replaceLibrary(root, snap, time.Now())
	if err != nil {
		if errors.Is(err, catalog.ErrCorruptSnapshot) {
			exitWithError(ExitDataError, "snapshot %s: %v", name, err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Restored %d papers from %s\n", len(snap.Papers), name)
		fmt.Printf("Previous library archived to %s\n", archive)
	} else {
		outputJSON(BackupResult{Status: "pulled", Name: name, Papers: len(snap.Papers), Archive: archive})
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	root := mustFindLibrary()

	snap, err := storage.LoadArchive(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitDataError, "%v", err)
	}
	archive, err := replaceLibrary(root, snap, time.Now())
	if err != nil {
		if errors.Is(err, catalog.ErrCorruptSnapshot) {
			exitWithError(ExitDataError, "archive %s: %v", args[0], err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Restored %d papers from %s\n", len(snap.Papers), args[0])
		fmt.Printf("Previous library archived to %s\n", archive)
	} else {
		outputJSON(BackupResult{Status: "restored", Name: filepath.Base(args[0]), Papers: len(snap.Papers), Archive: archive})
	}
	return nil
}

// replaceLibrary checks that snap restores, archives the current library,
// then saves snap in its place. The search mirror is dropped and rebuilt
// on next use. Returns the archive path.
func replaceLibrary(root string, snap *catalog.Snapshot, now time.Time) (string, error) {
	if _, err := catalog.Restore(snap); err != nil {
		return "", err
	}
	archive, err := archiveLibrary(root, now)
	if err != nil {
		return "", fmt.Errorf("archiving current library: %w", err)
	}
	if err := storage.Save(config.SnapshotPath(root), snap); err != nil {
		return "", fmt.Errorf("saving library: %w", err)
	}
	if err := os.Remove(config.DBPath(root)); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("stale search database left in place")
	}
	return archive, nil
}

// archiveLibrary writes the current snapshot file to the archives
// directory and returns the archive path.
func archiveLibrary(root string, now time.Time) (string, error) {
	current, err := storage.Load(config.SnapshotPath(root))
	if err != nil {
		return "", err
	}
	dir := config.ArchivesPath(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, backup.ArchiveName(now))
	if err := storage.SaveArchive(path, current); err != nil {
		return "", err
	}
	return path, nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	m := mustBackupManager()

	ctx, cancel := context.WithTimeout(cmd.Context(), backupTimeout)
	defer cancel()

	objects, err := m.List(ctx)
	if err != nil {
		exitWithError(ExitError, "listing snapshots: %v", err)
	}

	if humanOutput {
		if len(objects) == 0 {
			fmt.Println("No snapshots stored")
			return nil
		}
		for _, o := range objects {
			fmt.Printf("  %s  %8d B  %s\n", o.Name, o.Size, o.Modified.Local().Format(time.DateTime))
		}
		return nil
	}
	if objects == nil {
		objects = []backup.Object{}
	}
	outputJSON(objects)
	return nil
}
