package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/voxscene/luaubridge/bridge"
	"github.com/voxscene/luaubridge/hostenv"
	"github.com/voxscene/luaubridge/internal/hostlog"
	"github.com/voxscene/luaubridge/loader"
	"github.com/voxscene/luaubridge/luau"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "luaubridge [file]",
	Short: "Run Luau chunks under the WASM runtime bridge",
	Long: `luaubridge - Execute Luau source against the hosted WASM runtime.

The runtime module is downloaded once from its release URL, cached on disk,
and loaded lazily on first execution. Each run prints the structured result
payload decoded from the runtime's output.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun, // default to run command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("runtime-url", luau.ReleaseURL, "Runtime module download URL")
	rootCmd.PersistentFlags().String("cache-dir", "", "Module cache directory (default: ~/.cache/luaubridge)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log runtime diagnostics to stderr")

	addRunFlags(rootCmd)
}

// newLoader installs the host context and builds a loader from the
// persistent flags.
func newLoader(cmd *cobra.Command) *loader.Loader {
	verbose, _ := cmd.Flags().GetBool("verbose")
	runtimeURL, _ := cmd.Flags().GetString("runtime-url")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")

	if verbose {
		if logger, err := zap.NewDevelopment(); err == nil {
			hostlog.SetLogger(logger)
		}
	}

	if hostenv.Default() == nil {
		hostenv.SetDefault(hostenv.New())
	}

	opts := []loader.Option{loader.WithReleaseURL(runtimeURL)}
	if cacheDir != "" {
		opts = append(opts, loader.WithCacheDir(cacheDir))
	}
	return loader.New(opts...)
}

func newBridge(cmd *cobra.Command) *bridge.Bridge {
	return bridge.New(newLoader(cmd))
}
