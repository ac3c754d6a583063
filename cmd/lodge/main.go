// Command lodge runs the Wildwood Eco Lodge website and its build-time tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is normal in production; the environment is used as is.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "lodge",
		Short:         "Wildwood Eco Lodge website",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Human-readable debug logging")

	newLogger := func() (*zap.Logger, error) {
		if debug {
			return zap.NewDevelopment()
		}
		return zap.NewProduction()
	}

	cmd.AddCommand(serveCmd(newLogger), sitemapCmd(newLogger), &cobra.Command{
		Use:   "version",
		Short: "Print the lodge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lodge %s\n", version)
		},
	})
	return cmd
}
