package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// view command
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Count distinct callers by date, product or label",
}

var viewDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Callers per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		a, err := newApp("view dates")
		if err != nil {
			return err
		}
		defer a.Close()

		buckets, err := a.DateView(from, to)
		if err != nil {
			return err
		}
		if len(buckets) == 0 {
			fmt.Println("No callers.")
			return nil
		}
		for _, b := range buckets {
			fmt.Printf("%s  %d\n", b.Date, b.Count)
		}
		return nil
	},
}

var viewDateCmd = &cobra.Command{
	Use:   "date [YYYY-MM-DD]",
	Short: "Callers active on one day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("view date")
		if err != nil {
			return err
		}
		defer a.Close()

		day := ""
		if len(args) > 0 {
			day = args[0]
		}
		rows, err := a.DateDetail(day)
		if err != nil {
			return err
		}
		printDetail(rows)
		return nil
	},
}

var viewProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Callers per product over a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("view products")
		if err != nil {
			return err
		}
		defer a.Close()

		buckets, err := a.ProductView(days)
		if err != nil {
			return err
		}
		if len(buckets) == 0 {
			fmt.Println("No callers.")
			return nil
		}
		for _, b := range buckets {
			fmt.Printf("%-20s  %d\n", b.Product, b.Count)
		}
		return nil
	},
}

var viewProductCmd = &cobra.Command{
	Use:   "product NAME",
	Short: "Callers for one product over a window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("view product")
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.ProductDetail(args[0], days)
		if err != nil {
			return err
		}
		printDetail(rows)
		return nil
	},
}

var viewLabelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Callers per color label",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("view labels")
		if err != nil {
			return err
		}
		defer a.Close()

		buckets := a.LabelView()
		if len(buckets) == 0 {
			fmt.Println("No callers.")
			return nil
		}
		for _, b := range buckets {
			fmt.Printf("%s  %d\n", labelString(b.Label), b.Count)
		}
		return nil
	},
}

var viewLabelCmd = &cobra.Command{
	Use:   "label LABEL",
	Short: "Callers with one label and their incoming calls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("view label")
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.LabelDetail(args[0])
		if err != nil {
			return err
		}
		printDetail(rows)
		return nil
	},
}

// reminders command
var remindersCmd = &cobra.Command{
	Use:   "reminders [YYYY-MM-DD]",
	Short: "Records to follow up on a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("reminders")
		if err != nil {
			return err
		}
		defer a.Close()

		day := ""
		if len(args) > 0 {
			day = args[0]
		}
		due, err := a.Reminders(day)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("No reminders.")
			return nil
		}
		for i := range due {
			printRecord(&due[i])
		}
		return nil
	},
}

// calls command
var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Show recent device calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("calls")
		if err != nil {
			return err
		}
		defer a.Close()

		calls := a.RecentCalls(limit)
		if len(calls) == 0 {
			fmt.Println("No calls.")
			return nil
		}
		loc := a.Service().Location()
		for _, c := range calls {
			name := c.Name
			if c.Tracked {
				name = bold(name)
			}
			fmt.Printf("%s  %-9s  %-16s  %s\n", c.Timestamp.In(loc).Format("2006-01-02 15:04"), c.Type, c.PhoneNumber, name)
		}
		return nil
	},
}

func init() {
	viewDatesCmd.Flags().String("from", "", "First day (YYYY-MM-DD, default today)")
	viewDatesCmd.Flags().String("to", "", "Last day (YYYY-MM-DD, default today)")
	viewProductsCmd.Flags().IntP("days", "d", 30, "Window in days: 30, 60, 90, 180 or 365")
	viewProductCmd.Flags().IntP("days", "d", 30, "Window in days: 30, 60, 90, 180 or 365")
	callsCmd.Flags().IntP("limit", "n", 0, "Maximum number of calls to show")

	viewCmd.AddCommand(viewDatesCmd)
	viewCmd.AddCommand(viewDateCmd)
	viewCmd.AddCommand(viewProductsCmd)
	viewCmd.AddCommand(viewProductCmd)
	viewCmd.AddCommand(viewLabelsCmd)
	viewCmd.AddCommand(viewLabelCmd)

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(callsCmd)
}
