package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run one Luau chunk and print its result payload",
	Long: `Execute a single Luau source unit under the runtime.

Source can be provided via:
  - File argument: luaubridge run script.luau
  - Inline flag: luaubridge run -c 'print(1+1)'
  - Stdin: echo 'print(1+1)' | luaubridge run`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Luau source to execute")
	cmd.Flags().String("chunk", "", "Chunk name for diagnostics (default: file name or \"script\")")
}

func runRun(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	chunk, _ := cmd.Flags().GetString("chunk")

	var source string
	var filename string

	switch {
	case code != "":
		source = code
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	default:
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			cmd.Help()
			return
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
		if source == "" {
			cmd.Help()
			return
		}
	}

	if chunk == "" && filename != "" {
		chunk = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	b := newBridge(cmd)
	payload, err := b.Execute(context.Background(), source, chunk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(payload)
}
