// Command shirtshop runs the storefront API and its maintenance commands.
//
//	shirtshop migrate
//	shirtshop seed
//	shirtshop serve
//	shirtshop queue:work -w 4
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registered through init().
	_ "github.com/shashiranjanraj/shirtshop/database/migrations"
	_ "github.com/shashiranjanraj/shirtshop/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shirtshop",
	Short:         "Shirt storefront API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(queueRetryCmd)
}
