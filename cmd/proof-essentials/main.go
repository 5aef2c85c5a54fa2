// Command proof-essentials exercises the library from the command line:
// proving and verifying shuffles, running a local multi-party mix and
// evaluating the FEDL verifiable unpredictable function.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *essentials.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proof-essentials",
	Short: "Zero-knowledge building blocks: verifiable shuffles, mixes and VUFs",
	Long: `proof-essentials drives the library's primitives end to end.

Ciphertexts are ElGamal encryptions over secp256k1, arranged as a matrix of
rows x cols for the Bayer-Groth shuffle argument. Settings come from a YAML
file (--config); flags override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := essentials.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		if logger == nil {
			logger, err = logging.BuildZap(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd, shuffleCmd, mixCmd, vufCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
