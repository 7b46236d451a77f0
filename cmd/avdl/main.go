// Command avdl loads an Android shared object into the host process and
// lets the caller inspect or invoke its exported symbols, without the
// library ever touching the Android runtime.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/avdl/avdl"
	"github.com/avdl/avdl/internal/obs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	hooksFile string
	trace     bool
)

var rootCmd = &cobra.Command{
	Use:          "avdl",
	Short:        "Load Android shared objects outside of Android and call their exports",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		obs.Init(trace)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hooksFile, "hooks", "", "YAML file mapping symbol name to a built-in test double")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "enable structured stub/resolve/relocation tracing")
	rootCmd.AddCommand(loadCmd, symbolsCmd, callCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// builtinHooks resolves the names used in the --hooks file to the host
// address each one binds. The addresses are fixed raw values written into
// the image as-is, not callable functions: loaded code that calls a
// symbol bound this way jumps to that address. This is a demonstration
// surface, not a general plugin mechanism.
var builtinHooks = map[string]uintptr{
	"__avdl_zero":     0,
	"__avdl_deadbeef": 0xDEADBEEF,
}

func loadHooksFile(path string) (avdl.HookSet, error) {
	set := make(avdl.HookSet)
	if path == "" {
		return set, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hooks file: %w", err)
	}
	var named map[string]string
	if err := yaml.Unmarshal(data, &named); err != nil {
		return nil, fmt.Errorf("parse hooks file: %w", err)
	}
	for symbol, double := range named {
		addr, ok := builtinHooks[double]
		if !ok {
			return nil, fmt.Errorf("hooks file: unknown built-in %q for symbol %q", double, symbol)
		}
		set[symbol] = addr
	}
	return set, nil
}

var loadCmd = &cobra.Command{
	Use:   "load <shared library>",
	Short: "Load a shared object and report success",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hooks, err := loadHooksFile(hooksFile)
		if err != nil {
			return err
		}
		lib, err := avdl.LoadLibraryFileWithHooks(args[0], hooks)
		if err != nil {
			return err
		}
		defer lib.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <shared library>",
	Short: "List a shared object's dynamic symbols",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hooks, err := loadHooksFile(hooksFile)
		if err != nil {
			return err
		}
		lib, err := avdl.LoadLibraryFileWithHooks(args[0], hooks)
		if err != nil {
			return err
		}
		defer lib.Close()

		names := lib.Symbols()
		sort.Strings(names)
		for _, name := range names {
			addr, _ := lib.GetSymbol(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%#x %s\n", addr, name)
		}
		return nil
	},
}

var callArg uint64

var callCmd = &cobra.Command{
	Use:   "call <shared library> <symbol>",
	Short: "Invoke an exported function directly",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hooks, err := loadHooksFile(hooksFile)
		if err != nil {
			return err
		}
		lib, err := avdl.LoadLibraryFileWithHooks(args[0], hooks)
		if err != nil {
			return err
		}
		defer lib.Close()

		var ret uintptr
		if callArg != 0 {
			ret, err = lib.Call1(args[1], uintptr(callArg))
		} else {
			ret, err = lib.Call0(args[1])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s() = %#x\n", args[1], ret)
		return nil
	},
}

func init() {
	callCmd.Flags().Uint64Var(&callArg, "arg", 0, "optional single uintptr argument to pass to the exported function")
}
