package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog list")
		if err != nil {
			return err
		}
		defer a.Close()

		products, err := a.Products()
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products.")
			return nil
		}
		for _, p := range products {
			fmt.Println(p)
		}
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog add")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.AddProduct(args[0]); err != nil {
			return err
		}
		fmt.Printf("Added %s\n", args[0])
		return nil
	},
}

var catalogRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a product and every record that uses it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog rename")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RenameProduct(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s\n", args[0], args[1])
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a product no record uses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("catalog delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProduct(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogRenameCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
