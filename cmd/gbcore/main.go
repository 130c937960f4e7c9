package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oisee/gb-core/pkg/cpu"
	"github.com/oisee/gb-core/pkg/inst"
	"github.com/oisee/gb-core/pkg/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	format := formatAuto

	rootCmd := &cobra.Command{
		Use:          "gbcore",
		Short:        "Game Boy CPU core: decode and execute one instruction at a time",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logrus.StandardLogger(), cmd.ErrOrStderr(), logLevel, format)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("GBCORE_LOG", "info"), "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Var(&format, "log-format", "Log format (auto, text, json)")

	rootCmd.AddCommand(newRunCmd(), newDisassembleCmd())
	return rootCmd
}

// runOptions are the flags of the run command.
type runOptions struct {
	littleEndian bool
	resume       string
	save         string
	asJSON       bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	runCmd := &cobra.Command{
		Use:   "run [rom]",
		Short: "Load a ROM and execute the instruction at PC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}
	runCmd.Flags().BoolVar(&opts.littleEndian, "little-endian", false, "Read 16-bit immediates low byte first")
	runCmd.Flags().StringVar(&opts.resume, "resume", "", "Snapshot file to restore registers from")
	runCmd.Flags().StringVar(&opts.save, "save", "", "Snapshot file to write after the step")
	runCmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the state as JSON")
	return runCmd
}

func run(cmd *cobra.Command, romPath string, opts runOptions) error {
	log := logrus.StandardLogger()
	log.Info("Starting gbcore")

	rom, err := loadROM(romPath)
	if err != nil {
		return err
	}
	c := cpu.New(rom, cpu.Config{ByteOrder: byteOrder(opts.littleEndian), Logger: log})
	history := snapshot.NewHistory()

	if opts.resume != "" {
		snap, err := snapshot.Load(opts.resume)
		if err != nil {
			return fmt.Errorf("resume %s: %w", opts.resume, err)
		}
		if snap.ROMSize != len(rom) {
			log.WithFields(logrus.Fields{"snapshot": snap.ROMSize, "rom": len(rom)}).Warn("snapshot was taken against a different ROM size")
		}
		c.Restore(snap.State)
		for _, s := range snap.Steps {
			history.Add(s)
		}
	}

	res, err := c.Step()
	if err == nil || errors.Is(err, cpu.ErrProgramCounterOverflow) {
		history.Add(res)
	}
	if err != nil {
		log.WithError(err).Error("step failed")
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		if jerr := snapshot.WriteJSON(out, snapshot.Take(c, history)); jerr != nil {
			return jerr
		}
	} else {
		fmt.Fprint(out, c)
	}

	if opts.save != "" {
		if serr := snapshot.Save(opts.save, snapshot.Take(c, history)); serr != nil {
			return fmt.Errorf("save %s: %w", opts.save, serr)
		}
		log.WithField("path", opts.save).Info("snapshot written")
	}
	return err
}

func newDisassembleCmd() *cobra.Command {
	var littleEndian bool
	var offset, count int

	disCmd := &cobra.Command{
		Use:     "disassemble [rom]",
		Aliases: []string{"disasm"},
		Short:   "Print a linear disassembly of a ROM",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := loadROM(args[0])
			if err != nil {
				return err
			}
			if offset < 0 || offset > len(rom) {
				return fmt.Errorf("offset %d outside ROM of %d bytes", offset, len(rom))
			}
			out := cmd.OutOrStdout()
			for _, line := range inst.Listing(rom, offset, count, byteOrder(littleEndian)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	disCmd.Flags().BoolVar(&littleEndian, "little-endian", false, "Read 16-bit immediates low byte first")
	disCmd.Flags().IntVar(&offset, "offset", 0, "Start address")
	disCmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of instructions (0 = all)")
	return disCmd
}

func loadROM(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ROM: %w", err)
	}
	logrus.WithFields(logrus.Fields{"path": path, "size": len(rom)}).Debug("loaded ROM")
	return rom, nil
}

func byteOrder(littleEndian bool) inst.ByteOrder {
	if littleEndian {
		return inst.LowFirst
	}
	return inst.HighFirst
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
