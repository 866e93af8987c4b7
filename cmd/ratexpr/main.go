package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/ratexpr"
	"github.com/zephyrtronium/ratexpr/internal/config"
	"github.com/zephyrtronium/ratexpr/internal/server"
)

var (
	// Global flags
	cfgPath   string
	verbose   bool
	maxDepth  int
	maxTokens int

	// Evaluation flags
	inName  string
	echo    bool
	postfix bool
	digits  int

	// Serve flags
	addr string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ratexpr [expression ...]",
	Short: "Exact calculator for arithmetic expressions",
	Long: `ratexpr evaluates arithmetic expressions exactly, printing fractions as
mixed numbers: 1/3 is "0 (1 / 3)".

Each argument is one expression. With no arguments, expressions are read one
per line from --in or standard input. A line ending in an operator continues
on the next line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.Limits.MaxDepth = maxDepth
		}
		if cmd.Flags().Changed("max-tokens") {
			cfg.Limits.MaxTokens = maxTokens
		}
		if verbose {
			cfg.Log.Level = zapcore.DebugLevel.String()
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger, err = cfg.Logger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runEval,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP evaluation service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "YAML configuration file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&maxDepth, "max-depth", ratexpr.DefaultMaxDepth, "maximum expression tree height (0 for no limit)")
	pf.IntVar(&maxTokens, "max-tokens", ratexpr.DefaultMaxTokens, "maximum tokens per expression (0 for no limit)")

	f := rootCmd.Flags()
	f.StringVar(&inName, "in", "", `input file, or "-" for stdin (default stdin if no args given)`)
	f.BoolVar(&echo, "echo", false, "print parse trees")
	f.BoolVar(&postfix, "postfix", false, "print postfix token sequences")
	f.IntVar(&digits, "decimal", -1, "also print non-integer results to this many decimal places")

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p := newPrinter(out, isTerminal(out))
	opts := cfg.ParseOptions()

	if inName == "" && len(args) > 0 {
		logger.Debug("evaluating arguments", zap.Int("count", len(args)))
		for _, arg := range args {
			t, err := ratexpr.ParseString(arg, opts...)
			p.report(t, err)
		}
		return nil
	}

	var in io.Reader = cmd.InOrStdin()
	prompt := false
	if inName != "" && inName != "-" {
		f, err := os.Open(inName)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	} else if f, ok := in.(*os.File); ok {
		prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	logger.Debug("evaluating stream", zap.String("in", inName), zap.Bool("prompt", prompt))
	n, err := stream(bufio.NewReader(in), p, opts, prompt)
	logger.Debug("stream done", zap.Int("expressions", n))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	srv := server.New(cfg, logger)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Listen(cfg.Server.Addr)
	}()
	logger.Info("listening", zap.String("addr", cfg.Server.Addr))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	return srv.Shutdown()
}

// stream evaluates newline-separated expressions from in until EOF and
// returns how many it read. Invalid expressions are reported and skipped;
// only read errors stop the stream.
func stream(in io.RuneScanner, p *printer, opts []ratexpr.ParseOption, prompt bool) (int, error) {
	opts = append(opts[:len(opts):len(opts)], ratexpr.StopOn('\n'))
	n := 0
	for {
		if prompt {
			fmt.Fprint(p.out, ">> ")
		}
		// First check whether we're done with the input.
		if err := skipSpace(in); err != nil {
			if errors.Is(err, io.EOF) {
				if prompt {
					fmt.Fprintln(p.out)
				}
				return n, nil
			}
			return n, err
		}
		t, err := ratexpr.Parse(in, opts...)
		if err != nil && ratexpr.KindOf(err) == ratexpr.KindNone {
			return n, err
		}
		n++
		p.report(t, err)
	}
}

// skipSpace consumes whitespace up to the next other rune.
func skipSpace(in io.RuneScanner) error {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return in.UnreadRune()
		}
	}
}

// printer writes evaluation results.
type printer struct {
	out     io.Writer
	ok, bad *color.Color
}

func newPrinter(out io.Writer, colored bool) *printer {
	p := printer{
		out: out,
		ok:  color.New(color.FgGreen),
		bad: color.New(color.FgRed, color.Bold),
	}
	if colored {
		p.ok.EnableColor()
		p.bad.EnableColor()
	} else {
		p.ok.DisableColor()
		p.bad.DisableColor()
	}
	return &p
}

// report evaluates t, or reports err if parsing failed, and returns whether
// it produced a value.
func (p *printer) report(t *ratexpr.Tree, err error) bool {
	if err != nil {
		p.bad.Fprintf(p.out, "Error: %v\n", err)
		return false
	}
	if echo {
		fmt.Fprintf(p.out, "Tree: %v\n", t)
	}
	if postfix {
		fmt.Fprintf(p.out, "Postfix: %s\n", ratexpr.FormatTokens(t.Postfix()))
	}
	v, err := t.Eval()
	if err != nil {
		p.bad.Fprintf(p.out, "Error: %v\n", err)
		return false
	}
	var b strings.Builder
	b.WriteString(v.String())
	if digits >= 0 && !v.IsInt() {
		b.WriteString(" ~ ")
		b.WriteString(v.Decimal(digits))
	}
	p.ok.Fprintf(p.out, "Result: %s\n", b.String())
	return true
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
