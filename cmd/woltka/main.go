// Package main provides the CLI entrypoint for woltka.
//
// woltka is the data-interchange layer of a classification pipeline: it
// resolves sample IDs to per-sample mapping files, aggregates their sparse
// feature counts, and writes a deterministic feature-by-sample profile
// table, optionally enriched with taxonomic metadata columns.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "woltka",
	Short:         "Aggregate per-sample feature counts into profile tables",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("woltka " + version)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print detailed progress")
	rootCmd.AddCommand(profileCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
