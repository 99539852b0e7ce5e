// packctl packs item lists and manages stored orders from the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoxPack/internal/bootstrap"
)

// cli carries the flags and the runtime shared by every command.
type cli struct {
	opts   bootstrap.Options
	asJSON bool
	env    *bootstrap.Env
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "packctl",
		Short: "Pack items into boxes and manage orders",
		Long: `packctl runs the BoxPack packing engine without the desktop app.

It estimates item sizes from weight, packs items into a box, compares
item orderings and works with the order database shared with the app.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap.Open(c.opts)
			if err != nil {
				return err
			}
			c.env = env
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.env == nil {
				return nil
			}
			return c.env.Close()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.opts.ConfigPath, "config", "", "config file (default ~/.boxpack/config.json)")
	pf.StringVar(&c.opts.DatabasePath, "db", "", "order database path (overrides config)")
	pf.StringVar(&c.opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&c.opts.NoPredict, "no-predict", false, "skip the box predictor and use the fallback box")
	pf.BoolVar(&c.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		c.newEstimateCmd(),
		c.newPackCmd(),
		c.newCompareCmd(),
		c.newOrdersCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "packctl:", err)
		os.Exit(1)
	}
}
