package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nightstandapp/nightstand-server/internal/backup"
	"github.com/nightstandapp/nightstand-server/internal/logger"
)

func (a *app) newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and restore backup archives",
		Long: `Backups are zip archives holding the books and the profile. They are
written to the backups directory under the data path unless --output is given.`,
	}

	cmd.AddCommand(
		a.newBackupCreateCmd(),
		a.newBackupListCmd(),
		a.newBackupValidateCmd(),
		a.newBackupRestoreCmd(),
	)

	return cmd
}

// backupLogger sends backup diagnostics to stderr at the configured level.
func (a *app) backupLogger(cmd *cobra.Command) *slog.Logger {
	return logger.New(logger.Config{
		Writer:      cmd.ErrOrStderr(),
		Environment: a.cfg.App.Environment,
		Level:       logger.ParseLevel(a.cfg.Logger.Level),
		NoColor:     a.noColor,
	}).Logger
}

func (a *app) backups(cmd *cobra.Command) *backup.BackupService {
	return backup.NewBackupService(a.library, a.cfg.BackupDir(), a.backupLogger(cmd))
}

// archivePath accepts either a path or the id of a backup in the backup directory.
func (a *app) archivePath(cmd *cobra.Command, arg string) string {
	if b, err := a.backups(cmd).Get(a.ctx(cmd), arg); err == nil {
		return b.Path
	}
	return arg
}

func (a *app) newBackupCreateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a backup archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.backups(cmd).Create(a.ctx(cmd), output)
			if err != nil {
				return err
			}
			return a.emit(res, func() {
				a.ok("Backup written to %s", res.Path)
				a.note("books: %d (bag %d, nightstand %d, shelf %d)",
					res.Counts.Books, res.Counts.Bag, res.Counts.Nightstand, res.Counts.Shelf)
				a.note("sha256: %s", res.Checksum)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive path")

	return cmd
}

func (a *app) newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups in the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.backups(cmd).List(a.ctx(cmd))
			if err != nil {
				return err
			}
			return a.emit(list, func() {
				if len(list) == 0 {
					fmt.Fprintln(a.out, color.HiBlackString("no backups"))
					return
				}
				for _, b := range list {
					fmt.Fprintf(a.out, "%-28s %8d bytes  %s\n", b.ID, b.Size, b.CreatedAt.Local().Format("2006-01-02 15:04"))
				}
			})
		},
	}
}

func (a *app) newBackupValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|id>",
		Short: "Check a backup without restoring it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restorer := backup.NewRestoreService(a.library, a.backupLogger(cmd))
			res, err := restorer.Validate(a.ctx(cmd), a.archivePath(cmd, args[0]))
			if err != nil {
				return err
			}
			if err := a.emit(res, func() {
				if res.Valid {
					a.ok("Backup is valid")
				} else {
					fmt.Fprintln(a.out, color.RedString("✗"), "Backup is not valid")
				}
				if m := res.Manifest; m != nil {
					a.note("created %s, %d books", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Counts.Books)
				}
				for _, e := range res.Errors {
					a.note("%s %s", color.RedString("error:"), e)
				}
				for _, w := range res.Warnings {
					a.note("%s %s", color.YellowString("warning:"), w)
				}
			}); err != nil {
				return err
			}
			if !res.Valid {
				return errors.New("backup failed validation")
			}
			return nil
		},
	}
}

func (a *app) newBackupRestoreCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "restore <file|id>",
		Short: "Replace the library with a backup",
		Long:  `Replace every book and the profile with the contents of a backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !dryRun {
				return errors.New("restore replaces all data; pass --yes to confirm")
			}
			restorer := backup.NewRestoreService(a.library, a.backupLogger(cmd))
			res, err := restorer.Restore(a.ctx(cmd), a.archivePath(cmd, args[0]), backup.RestoreOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			return a.emit(res, func() {
				if res.DryRun {
					a.ok("Backup can be restored")
				} else {
					a.ok("Library restored")
				}
				a.note("books: %d", res.Counts.Books)
				if res.Skipped > 0 {
					a.note("%s %d unreadable books skipped", color.YellowString("warning:"), res.Skipped)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm replacing the library")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read the backup without restoring")

	return cmd
}
