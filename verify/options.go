package verify

import (
	"bytes"
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultSeed   = 1
	defaultWindow = 100000
)

// Option configures a check or a loader
type Option func(*config)

type config struct {
	log        *zap.Logger
	fatal      bool
	exit       func(code int)
	countCheck bool
	filled     bool
	seed       uint64
	window     int
	scratch    *bytes.Buffer
	decodeBuf  []uint32
}

// WithLogger sets the logger used for progress and diagnostics
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithFatal makes the first detected mismatch terminate the process with exit code 1,
// after writing the diagnostic to the logger (standard error unless WithLogger is used).
func WithFatal() Option {
	return func(c *config) {
		c.fatal = true
	}
}

// WithoutCount disables the cardinality checks of the set checkers, as well as the
// range count check of the enumerator traversal.
func WithoutCount() Option {
	return func(c *config) {
		c.countCheck = false
	}
}

// WithIntervalFilled tolerates a null bitmap whose cardinality differs from the size
// of the reference, for vectors where some positions are expected to be absent.
func WithIntervalFilled() Option {
	return func(c *config) {
		c.filled = true
	}
}

// WithSeed sets the seed of the random source driving the windowed decode scans
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithDecodeWindow sets the initial window of the shrinking-window decode scan
func WithDecodeWindow(size int) Option {
	return func(c *config) {
		c.window = size
	}
}

// WithScratch provides a buffer that is reused for serialization round-trips
func WithScratch(buf *bytes.Buffer) Option {
	return func(c *config) {
		c.scratch = buf
	}
}

// withExit replaces the function used to terminate the process in fatal mode
func withExit(fn func(code int)) Option {
	return func(c *config) {
		c.exit = fn
	}
}

// newConfig applies the options on top of the defaults
func newConfig(opts []Option) *config {
	c := &config{
		exit:       os.Exit,
		countCheck: true,
		seed:       defaultSeed,
		window:     defaultWindow,
	}

	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.log == nil && c.fatal:
		c.log = stderrLogger()
	case c.log == nil:
		c.log = zap.NewNop()
	}

	if c.scratch == nil {
		c.scratch = new(bytes.Buffer)
	}
	return c
}

// random returns a new deterministic random source for the configured seed
func (c *config) random() *rand.Rand {
	return rand.New(rand.NewPCG(c.seed, c.seed^0x9e3779b97f4a7c15))
}

// buffer returns the scratch buffer, emptied
func (c *config) buffer() *bytes.Buffer {
	c.scratch.Reset()
	return c.scratch
}

// decodeBuffer returns a decode buffer of exactly n elements, reusing its storage
func (c *config) decodeBuffer(n int) []uint32 {
	if cap(c.decodeBuf) < n {
		c.decodeBuf = make([]uint32, n)
	}
	return c.decodeBuf[:n]
}

// fail reports a failed check. In fatal mode the diagnostic is logged and the process
// terminates, otherwise the error is logged and returned to the caller.
func (c *config) fail(err error) error {
	if err == nil {
		return nil
	}

	var m *Mismatch
	if errors.As(err, &m) {
		c.log.Error("verification failed",
			zap.Stringer("kind", m.Kind),
			zap.Uint64("index", m.Index),
			zap.Uint64("want", m.Want),
			zap.Uint64("got", m.Got),
			zap.String("detail", m.Msg),
			zap.NamedError("cause", m.Err),
		)
	} else {
		c.log.Error("verification failed", zap.Error(err))
	}

	if c.fatal {
		_ = c.log.Sync()
		c.exit(1)
	}
	return err
}

// stderrLogger creates a console logger that writes to the standard error
func stderrLogger() *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(zapcore.DebugLevel))
	return zap.New(core).Named("verify")
}
