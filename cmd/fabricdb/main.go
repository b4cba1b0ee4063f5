// Command fabricdb creates and inspects graph files.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fabricdb/fabricdb"
	"github.com/fabricdb/fabricdb/internal/memory"
)

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:           "fabricdb",
		Short:         "fabricdb is an embedded single-file property-graph store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	var appSig string
	var appVersion uint32
	create := &cobra.Command{
		Use:   "create <file>",
		Short: "create a new graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := fabricdb.Create(args[0],
				fabricdb.WithAppSignature(appSig),
				fabricdb.WithAppVersion(appVersion),
			)
			if err != nil {
				return err
			}
			defer g.Close()

			log.WithField("file", args[0]).Info("graph created")

			return nil
		},
	}
	create.Flags().StringVar(&appSig, "app-signature", "", "application signature (up to 16 bytes)")
	create.Flags().Uint32Var(&appVersion, "app-version", 0, "application version")

	header := &cobra.Command{
		Use:   "header <file>",
		Short: "print the graph file header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := fabricdb.Open(args[0])
			if err != nil {
				return err
			}
			defer g.Close()

			g.DumpHeader(cmd.OutOrStdout())

			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats <file>",
		Short: "print live record counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := fabricdb.Open(args[0])
			if err != nil {
				return err
			}
			defer g.Close()

			log.WithFields(logrus.Fields{
				"classes":        g.Classes().Count(),
				"labels":         g.Labels().Count(),
				"vertices":       g.Vertices().Count(),
				"edges":          g.Edges().Count(),
				"properties":     g.Properties().Count(),
				"change_counter": g.ChangeCounter(),
				"memory_bytes":   memory.InUse(),
			}).Info("graph stats")

			return nil
		},
	}

	root.AddCommand(create, header, stats)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
