// Command mcping queries Minecraft servers and inspects protocol data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gstoney/mcproto/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type globalFlags struct {
	configPath string
	envFiles   []string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mcping: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mcping",
		Short: "Query Minecraft servers over the Java protocol",
		Long: `mcping speaks the Minecraft Java Edition protocol.

It queries server status, exports status as Prometheus metrics,
dumps NBT files and looks up player UUIDs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default ./"+config.ConfigFileName+" if present)")
	rootCmd.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(
		statusCmd(g),
		exporterCmd(g),
		nbtCmd(),
		uuidCmd(g),
		versionCmd(),
	)
	return rootCmd
}

func (g *globalFlags) load() (*config.Config, error) {
	return config.Load(g.configPath, g.envFiles...)
}
