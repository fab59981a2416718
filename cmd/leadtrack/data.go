package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold the device call log into the caller histories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("merge")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Merge()
		if err != nil {
			return fmt.Errorf("merge failed: %w", err)
		}
		fmt.Printf("Updated %d record(s)\n", n)
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Merge the call log on a schedule and on SIGUSR1",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("watch")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		usr1 := make(chan os.Signal, 1)
		signal.Notify(usr1, syscall.SIGUSR1)
		defer signal.Stop(usr1)

		triggers := make(chan struct{}, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-usr1:
					select {
					case triggers <- struct{}{}:
					default:
					}
				}
			}
		}()

		fmt.Printf("Watching the call log (pid %d), Ctrl-C to stop\n", os.Getpid())
		return a.Watch(ctx, triggers)
	},
}

// data command
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage stored data",
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record and/or the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _ := cmd.Flags().GetBool("records")
		catalog, _ := cmd.Flags().GetBool("catalog")
		if !records && !catalog {
			records, catalog = true, true
		}

		a, err := newApp("data clear")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearData(records, catalog); err != nil {
			return err
		}
		fmt.Println("Cleared.")
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a snapshot of the records and catalog to every vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("backup")
		if err != nil {
			return err
		}
		defer a.Close()

		force, _ := cmd.Flags().GetBool("force")
		version, err := a.Backup(force)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Backed up snapshot %s\n", time.Unix(version, 0).Format("2006-01-02 15:04:05"))
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the records and catalog with the newest vault snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("restore")
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.Restore(vaultName)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("Restored %d record(s) and %d product(s) from %s\n",
			len(snap.Records), len(snap.Catalog), snap.TakenAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	dataClearCmd.Flags().Bool("records", false, "Clear only the records")
	dataClearCmd.Flags().Bool("catalog", false, "Clear only the catalog")
	dataCmd.AddCommand(dataClearCmd)

	backupCmd.Flags().Bool("force", false, "Overwrite a newer snapshot already in a vault")
	restoreCmd.Flags().String("vault", "", "Restore from this vault instead of the newest")

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
