// Command genie is the interconnect synthesis compiler's CLI: it reads
// a component library and system description, runs the compile
// pipeline, and optionally dumps the topology or finalized netlist as
// Graphviz and prints a primitive area/power summary.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonathanScottRose/GENIE-sub001/internal/compiler"
	"github.com/JonathanScottRose/GENIE-sub001/internal/dotdump"
	"github.com/JonathanScottRose/GENIE-sub001/internal/driver"
	"github.com/JonathanScottRose/GENIE-sub001/internal/logctx"
	"github.com/JonathanScottRose/GENIE-sub001/internal/primcat"
	"github.com/JonathanScottRose/GENIE-sub001/internal/specio"
	"github.com/JonathanScottRose/GENIE-sub001/internal/summary"
)

// Process exit codes, mirroring the compile error taxonomy's classes.
const (
	ExitCodeSuccess   = 0
	ExitCodeSpecError = 1
	ExitCodeInternal  = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		verbose       bool
		registerMerge bool
		p2pDot        string
		topoDot       string
		catalogPath   string
	)

	root := &cobra.Command{
		Use:           "genie",
		Short:         "Interconnect synthesis compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	compileCmd := &cobra.Command{
		Use:   "compile <system.yaml>",
		Short: "Compile a system description into a finalized netlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			log := logctx.New(verbose)
			defer log.Sync() //nolint:errcheck

			src := specio.FromFile(posArgs[0])
			reg, sys, err := src.Load()
			if err != nil {
				return compiler.SpecError("loading system description", err)
			}

			if err := driver.Run(sys, reg, driver.Options{RegisterMerge: registerMerge}, log); err != nil {
				return err
			}

			if topoDot != "" {
				f, err := os.Create(topoDot)
				if err != nil {
					return compiler.InternalInvariant("creating topology dot file", err)
				}
				defer f.Close()
				if err := dotdump.WriteTopology(f, sys); err != nil {
					return compiler.InternalInvariant("writing topology dot file", err)
				}
			}
			if p2pDot != "" {
				f, err := os.Create(p2pDot)
				if err != nil {
					return compiler.InternalInvariant("creating p2p dot file", err)
				}
				defer f.Close()
				if err := dotdump.WritePointToPoint(f, sys); err != nil {
					return compiler.InternalInvariant("writing p2p dot file", err)
				}
			}

			if catalogPath != "" {
				cat, err := primcat.Load(catalogPath)
				if err != nil {
					return compiler.SpecError("loading primitive catalog", err)
				}
				fmt.Print(summary.Summarize(sys, cat).String())
			}

			fmt.Printf("compiled %q: %d node(s), %d connection(s)\n", sys.FullName(), sys.NumNodes(), len(sys.Connections()))
			return nil
		},
	}
	compileCmd.Flags().BoolVar(&registerMerge, "register-merge", false, "splice a register after every merge node")
	compileCmd.Flags().StringVar(&p2pDot, "p2p-dot", "", "write the finalized point-to-point netlist to this .dot file")
	compileCmd.Flags().StringVar(&topoDot, "topo-dot", "", "write the declarative topology graph to this .dot file")
	compileCmd.Flags().StringVar(&catalogPath, "catalog", "", "primitive catalog TOML file; when set, prints an area/power summary")

	root.AddCommand(compileCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var cerr *compiler.Error
		if errors.As(err, &cerr) {
			return cerr.Kind.ExitCode()
		}
		return ExitCodeSpecError
	}
	return ExitCodeSuccess
}
