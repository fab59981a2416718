package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write call data to a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		all, _ := cmd.Flags().GetBool("all")
		publish, _ := cmd.Flags().GetBool("publish")

		a, err := newApp("export")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.Export(from, to, all, publish)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

// downloads command
var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Manage exported spreadsheets",
}

var downloadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported spreadsheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("downloads list")
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.Downloads()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No downloads.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %8d  %s\n", f.ModTime.Format("2006-01-02 15:04"), f.Size, f.Name)
		}
		return nil
	},
}

var downloadsDeleteCmd = &cobra.Command{
	Use:   "delete FILENAME",
	Short: "Delete an exported spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("downloads delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteDownload(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var downloadsDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every exported spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("downloads delete-all")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.DeleteAllDownloads()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d file(s)\n", n)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("from", "", "First day (YYYY-MM-DD, default today)")
	exportCmd.Flags().String("to", "", "Last day (YYYY-MM-DD, default today)")
	exportCmd.Flags().Bool("all", false, "Export every record")
	exportCmd.Flags().Bool("publish", false, "Also upload the file to every vault")
	exportCmd.MarkFlagsMutuallyExclusive("all", "from")
	exportCmd.MarkFlagsMutuallyExclusive("all", "to")

	downloadsCmd.AddCommand(downloadsListCmd)
	downloadsCmd.AddCommand(downloadsDeleteCmd)
	downloadsCmd.AddCommand(downloadsDeleteAllCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(downloadsCmd)
}
