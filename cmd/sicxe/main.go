// Command sicxe is a non-interactive front end over the assemble/link/run
// library packages (package asm, loader, vm, session): thin, scriptable
// subcommands standing in for the commands an interactive shell would
// otherwise issue against one long-lived session.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/mujjingun/sicxe/asm"
	"github.com/mujjingun/sicxe/config"
	"github.com/mujjingun/sicxe/loader"
	"github.com/mujjingun/sicxe/opcode"
	"github.com/mujjingun/sicxe/reg"
	"github.com/mujjingun/sicxe/session"
	"github.com/mujjingun/sicxe/toolerr"
	"github.com/mujjingun/sicxe/vm"
)

func main() {
	log.SetFlags(0)

	var mnemonicsFlag string
	var verboseFlag bool

	root := &cobra.Command{
		Use:   "sicxe",
		Short: "Assemble, link, and run SIC/XE object programs",
	}
	root.PersistentFlags().StringVar(&mnemonicsFlag, "mnemonics", "", "path to the mnemonic opcode table (default: $SICXE_MNEMONICS or ./mnemonics.txt)")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "dump assembler/loader results and final registers with go-spew")

	root.AddCommand(
		newAssembleCmd(&mnemonicsFlag, &verboseFlag),
		newLoaderCmd(&mnemonicsFlag, &verboseFlag),
		newRunCmd(&mnemonicsFlag, &verboseFlag),
	)

	if err := root.Execute(); err != nil {
		var te *toolerr.Error
		if errors.As(err, &te) {
			fmt.Fprintln(os.Stderr, te.Error())
		} else {
			fmt.Fprintf(os.Stderr, "sicxe: Error: %v\n", err)
		}
		if isMissingMnemonics(err) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// missingMnemonics marks an error as "the mnemonic file could not be
// loaded", reported as exit code 1; every other reported error is
// distinguished as exit code 2.
type missingMnemonics struct{ error }

func (m missingMnemonics) Unwrap() error { return m.error }

func isMissingMnemonics(err error) bool {
	_, ok := err.(missingMnemonics)
	return ok
}

func loadTable(path string) (*opcode.Table, error) {
	t, err := opcode.Load(path)
	if err != nil {
		return nil, missingMnemonics{toolerr.Wrap(toolerr.IO, path, "loading mnemonic table", err)}
	}
	return t, nil
}

func newAssembleCmd(mnemonicsFlag *string, verboseFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <file>",
		Short: "Run the two-pass assembler, writing .obj and .lst next to the source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(*mnemonicsFlag, *verboseFlag)
			table, err := loadTable(cfg.MnemonicsPath)
			if err != nil {
				return err
			}

			res, err := asm.Assemble(args[0], table)
			if err != nil {
				return err
			}

			fmt.Printf("wrote %s\n", res.ObjPath)
			fmt.Printf("wrote %s\n", res.LstPath)
			fmt.Println("symbol table:")
			for _, sym := range res.Symbols.IterSorted() {
				fmt.Printf("  %-6s %06X\n", sym.Label, sym.Addr)
			}
			if cfg.Verbose {
				spew.Dump(res)
			}
			return nil
		},
	}
}

func newLoaderCmd(mnemonicsFlag *string, verboseFlag *bool) *cobra.Command {
	var progAddr string
	cmd := &cobra.Command{
		Use:   "loader <file>...",
		Short: "Link 1-3 object files into a fresh session's memory image and print the link map",
		Args:  cobra.RangeArgs(1, loader.MaxFiles),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(*mnemonicsFlag, *verboseFlag)
			table, err := loadTable(cfg.MnemonicsPath)
			if err != nil {
				return err
			}
			sess := session.New(table)

			addr, err := parseHexFlag(progAddr)
			if err != nil {
				return err
			}

			res, err := loader.Load(args, addr, sess.Mem)
			if err != nil {
				return err
			}
			for _, line := range loader.FormatLinkMap(res) {
				fmt.Println(line)
			}
			if res.HasEntry {
				fmt.Printf("entry %06X\n", res.Entry)
			}
			if cfg.Verbose {
				spew.Dump(res)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&progAddr, "progaddr", "0", "load address for the first section (hex)")
	return cmd
}

func newRunCmd(mnemonicsFlag *string, verboseFlag *bool) *cobra.Command {
	var progAddr string
	var breakpoints []string
	var cycles int

	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Link 1-3 object files and run the interpreter to completion or to a breakpoint",
		Args:  cobra.RangeArgs(1, loader.MaxFiles),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(*mnemonicsFlag, *verboseFlag)
			table, err := loadTable(cfg.MnemonicsPath)
			if err != nil {
				return err
			}
			sess := session.New(table)

			addr, err := parseHexFlag(progAddr)
			if err != nil {
				return err
			}

			res, err := loader.Load(args, addr, sess.Mem)
			if err != nil {
				return err
			}
			for _, line := range loader.FormatLinkMap(res) {
				fmt.Println(line)
			}
			if !res.HasEntry {
				return toolerr.New(toolerr.Semantic, "run", fmt.Sprintf("no E record among %v; nothing to execute", args))
			}

			for _, bpStr := range breakpoints {
				bpAddr, err := parseHexFlag(bpStr)
				if err != nil {
					return toolerr.Wrap(toolerr.Usage, "run", fmt.Sprintf("bad --bp value %q", bpStr), err)
				}
				sess.BP.Add(bpAddr)
			}

			sess.Reg.SetU(reg.PC, res.Entry)
			cpu := vm.New(sess.Mem, sess.Reg, sess.BP, sess.Dev, sess.Table)
			cpu.Out = os.Stdout

			result, err := cpu.Run(cycles)
			if err != nil {
				return toolerr.Wrap(toolerr.Runtime, "run", "interpreter halted", err)
			}
			switch result.Reason {
			case vm.StopBreakpoint:
				fmt.Printf("breakpoint hit after %d instructions\n", result.Cycles)
				fmt.Println(sess.DumpRegisters())
			case vm.StopCycles:
				fmt.Printf("cycle limit (%d) reached\n", cycles)
				fmt.Println(sess.DumpRegisters())
			default:
				fmt.Println(sess.DumpRegisters())
			}
			if cfg.Verbose {
				spew.Dump(sess.Reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&progAddr, "progaddr", "0", "load address for the first section (hex)")
	cmd.Flags().StringArrayVar(&breakpoints, "bp", nil, "breakpoint address (hex), repeatable")
	cmd.Flags().IntVar(&cycles, "cycles", 1_000_000, "maximum instructions to execute before stopping (0 = unbounded)")
	return cmd
}

func parseHexFlag(s string) (uint32, error) {
	var v uint32
	if _, err := fmt.Sscanf(s, "%X", &v); err != nil {
		return 0, fmt.Errorf("invalid hex value %q: %w", s, err)
	}
	return v, nil
}
