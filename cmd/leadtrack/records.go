package main

import (
	"fmt"

	"leadtrack/internal/app"

	"github.com/spf13/cobra"
)

// record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Manage caller records",
}

func recordInput(cmd *cobra.Command) app.RecordInput {
	var in app.RecordInput
	in.Name, _ = cmd.Flags().GetString("name")
	in.Label, _ = cmd.Flags().GetString("label")
	in.Product, _ = cmd.Flags().GetString("product")
	in.RemindDate, _ = cmd.Flags().GetString("remind")
	in.Note, _ = cmd.Flags().GetString("note")
	if cmd.Flags().Lookup("clear-remind") != nil {
		in.ClearRemind, _ = cmd.Flags().GetBool("clear-remind")
		in.ClearNote, _ = cmd.Flags().GetBool("clear-note")
	}
	return in
}

var recordAddCmd = &cobra.Command{
	Use:   "add PHONE",
	Short: "Save a new caller record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("record add")
		if err != nil {
			return err
		}
		defer a.Close()

		in := recordInput(cmd)
		in.Phone = args[0]
		rec, err := a.AddRecord(in)
		if err != nil {
			return fmt.Errorf("saving record: %w", err)
		}
		printRecord(rec)
		return nil
	},
}

var recordUpdateCmd = &cobra.Command{
	Use:   "update PHONE PRODUCT",
	Short: "Edit a caller record",
	Long:  "Edit the record for PHONE and PRODUCT. Only the flags given are changed; --product moves the record to another product.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("record update")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.UpdateRecord(args[0], args[1], recordInput(cmd))
		if err != nil {
			return fmt.Errorf("updating record: %w", err)
		}
		printRecord(rec)
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List caller records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("record list")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.Records()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No records.")
			return nil
		}
		for i := range records {
			printRecord(&records[i])
		}
		return nil
	},
}

var recordFindCmd = &cobra.Command{
	Use:   "find PHONE",
	Short: "Show the records and call history for a number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("record find")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.FindRecords(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No records.")
			return nil
		}
		for i := range records {
			r := &records[i]
			printRecord(r)
			for _, c := range r.CallHistory {
				fmt.Printf("    %s  %-9s  %ds\n", c.Timestamp.In(a.Service().Location()).Format("2006-01-02 15:04"), c.Type, c.Duration)
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{recordAddCmd, recordUpdateCmd} {
		c.Flags().String("name", "", "Caller name")
		c.Flags().StringP("label", "l", "", "Color label: red, green or black")
		c.Flags().StringP("product", "p", "", "Product from the catalog")
		c.Flags().String("remind", "", "Reminder date (YYYY-MM-DD)")
		c.Flags().String("note", "", "Free-form note")
	}
	recordUpdateCmd.Flags().Bool("clear-remind", false, "Remove the reminder date")
	recordUpdateCmd.Flags().Bool("clear-note", false, "Remove the note")
	recordUpdateCmd.MarkFlagsMutuallyExclusive("remind", "clear-remind")
	recordUpdateCmd.MarkFlagsMutuallyExclusive("note", "clear-note")
	recordAddCmd.MarkFlagRequired("name")
	recordAddCmd.MarkFlagRequired("product")

	recordCmd.AddCommand(recordAddCmd)
	recordCmd.AddCommand(recordUpdateCmd)
	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordFindCmd)
	rootCmd.AddCommand(recordCmd)
}
