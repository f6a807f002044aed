// Command stress loads generated references of various shapes and sizes into the
// bitmap and sparse vector containers, and cross-checks every access path.
package main

import (
	"io"
	"os"

	"github.com/kelindar/sparsecheck/verify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stderr io.Writer) *cobra.Command {
	var (
		sizes   []int
		names   []string
		seed    uint64
		maxSpan uint32
		window  int
		fatal   bool
		verbose bool
	)

	rc := &cobra.Command{
		Use:          "stress",
		Short:        "Differential stress test of the bitmap and sparse vector containers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(stderr, verbose)
			defer log.Sync()

			opts := []verify.Option{verify.WithDecodeWindow(window)}
			if fatal {
				opts = append(opts, verify.WithFatal())
			}

			if err := newRunner(log, seed, maxSpan, opts...).Run(sizes, names); err != nil {
				log.Error("stress test failed", zap.Error(err))
				return err
			}

			log.Info("stress test passed")
			return nil
		},
	}

	flags := rc.Flags()
	flags.IntSliceVar(&sizes, "size", []int{1e3, 1e5}, "number of generated keys per reference")
	flags.StringSliceVar(&names, "shape", nil, "shapes to generate: seq, rnd, sps, dns (default all)")
	flags.Uint64Var(&seed, "seed", 1, "seed of the generators and of the decode scans")
	flags.Uint32Var(&maxSpan, "max-span", 1<<22, "largest key for which sparse vectors are checked")
	flags.IntVar(&window, "decode-window", 100000, "initial window of the shrinking-window decode scan")
	flags.BoolVar(&fatal, "fatal", true, "terminate at the first mismatch")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log the progress of every check")
	rc.SetOut(stderr)
	rc.SetErr(stderr)
	return rc
}

// newLogger creates a console logger writing to the given writer
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("stress")
}
