// Command z80run is a minimal host shell around pkg/cpu: it loads a raw
// binary image into flat memory, drives Step in a loop, and can print a
// step-by-step trace. It exists to exercise the core from the command line,
// not as a full system emulator (spec.md §1's "host shell is out of scope").
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/z80core/z80/pkg/bus"
	"github.com/z80core/z80/pkg/cpu"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "z80run",
		Short: "Run a raw Z80 binary image against the instruction-accurate core",
	}

	var loadAddr uint16
	var startAddr uint16
	var maxSteps int

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load and execute an image until HALT or max-steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadImage(args[0], loadAddr, startAddr)
			if err != nil {
				return err
			}
			steps := 0
			for !c.Halted && steps < maxSteps {
				if _, err := c.Step(); err != nil {
					return fmt.Errorf("step %d: %w", steps, err)
				}
				steps++
			}
			fmt.Printf("halted=%v steps=%d tstates=%d pc=%04X\n", c.Halted, steps, c.TStates, c.PC)
			return nil
		},
	}
	runCmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "address to load the image at")
	runCmd.Flags().Uint16Var(&startAddr, "start", 0x0000, "initial PC")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "abort after this many instructions")

	traceCmd := &cobra.Command{
		Use:   "trace [image]",
		Short: "Like run, but print PC and T-state cost after every instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadImage(args[0], loadAddr, startAddr)
			if err != nil {
				return err
			}
			steps := 0
			for !c.Halted && steps < maxSteps {
				pc := c.PC
				cost, err := c.Step()
				if err != nil {
					return fmt.Errorf("step %d: %w", steps, err)
				}
				fmt.Printf("%04X: %d T-states (total %d)\n", pc, cost, c.TStates)
				steps++
			}
			return nil
		},
	}
	traceCmd.Flags().Uint16Var(&loadAddr, "load", 0x0000, "address to load the image at")
	traceCmd.Flags().Uint16Var(&startAddr, "start", 0x0000, "initial PC")
	traceCmd.Flags().IntVar(&maxSteps, "max-steps", 1_000_000, "abort after this many instructions")

	rootCmd.AddCommand(runCmd, traceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadImage(path string, loadAddr, startAddr uint16) (*cpu.CPU, *bus.FlatMemory, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}
	mem := bus.NewFlatMemory()
	mem.Load(loadAddr, img)
	c := cpu.New(mem)
	c.PC = startAddr
	return c, mem, nil
}
