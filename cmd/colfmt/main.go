package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-colfmt"
	"github.com/goliatone/go-colfmt/modules/libphonenumber"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type cliOptions struct {
	locale         string
	defaultLocale  string
	fallbackLocale string
	count          int
	seed           int64
	input          string
	column         string
	output         string
	registries     []string
	workers        int
	phoneMetadata  bool
	validatePhone  bool
	logLevel       string
	list           bool
}

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(os.Stderr, "colfmt: %s\n", exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintf(os.Stderr, "colfmt: %v\n", err)
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "colfmt <field-kind> [value...]",
		Short: "Enforce a consistent format on a column of values",
		Long: `colfmt normalizes phone numbers, postal codes, SSNs and card numbers to the
canonical pattern of a locale, including values that were already masked.

With values (positional or --input) every value is reformatted; rows that do
not fit the pattern are reported and skipped. Without values, --count
synthetic values are generated in the pattern.

Field kinds: phone, phone_intl, zip, ssn, credit_card (aliases such as
phone_number, zip_code, postcode and credit_card_number are accepted).
email is generate-only.`,
		Example: `  colfmt phone 5551234567
  colfmt zip --locale en-CA --count 5 --seed 42
  colfmt phone --input contacts.csv --column mobile --output phones.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return nil
			}
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return &ExitError{Code: 2, Message: err.Error(), Err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, args, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error(), Err: err}
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.locale, "locale", "", "locale to format for, e.g. en-US or de_DE (default: the registry default locale)")
	flags.StringVar(&opts.defaultLocale, "default-locale", "", "override the registry default locale")
	flags.StringVar(&opts.fallbackLocale, "fallback-locale", "", "locale to use when --locale has no pattern (unset: unknown locales fail)")
	flags.IntVar(&opts.count, "count", 1, "number of values to generate when no input is given")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for reproducible generation (0 picks a random seed)")
	flags.StringVar(&opts.input, "input", "", "read values from a text, .csv or .xlsx file ('-' for stdin)")
	flags.StringVar(&opts.column, "column", "", "column name or index to read from --input")
	flags.StringVar(&opts.output, "output", "", "write results to a file (.xlsx writes a workbook); default stdout")
	flags.StringArrayVar(&opts.registries, "registry", nil, "extra registry definition file (.yaml or .json); repeatable")
	flags.IntVar(&opts.workers, "workers", 0, "rows reformatted concurrently (0 uses GOMAXPROCS)")
	flags.BoolVar(&opts.phoneMetadata, "phone-metadata", false, "derive phone patterns from libphonenumber for locales without one")
	flags.BoolVar(&opts.validatePhone, "validate-phone", false, "reject phone values libphonenumber reports as impossible")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.list, "list", false, "list locales, kinds and patterns, then exit")

	return cmd
}

func execute(ctx context.Context, opts *cliOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error(), Err: err}
	}

	cfg, err := colfmt.NewConfig(configOptions(opts, logger)...)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error(), Err: err}
	}

	registry, err := cfg.Registry()
	if err != nil {
		logger.Error().Err(err).Msg("load pattern registry")
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}

	if opts.list {
		return listRegistry(stdout, registry)
	}

	kind := args[0]
	values := args[1:]

	if colfmt.IsGenerateOnly(kind) {
		return generateOnly(opts, cfg.BuildEngine(), colfmt.NormalizeKind(kind), len(values) > 0, stdout)
	}

	spec, err := registry.Lookup(opts.locale, kind)
	if err != nil {
		logger.Error().Err(err).Str("locale", opts.locale).Str("kind", kind).Msg("no format")
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	logger.Debug().
		Str("locale", spec.Locale()).
		Str("kind", spec.Kind()).
		Str("pattern", spec.Pattern()).
		Msg("format resolved")

	engine := cfg.BuildEngine()

	if len(values) == 0 && opts.input == "" {
		generated, err := engine.Generate(spec, opts.count)
		if err != nil {
			return &ExitError{Code: 1, Message: err.Error(), Err: err}
		}
		var out []string
		for value := range generated {
			out = append(out, value)
		}
		return writeOutput(opts, spec.Kind(), stdout, out)
	}

	rows := append([]string(nil), values...)
	if opts.input != "" {
		read, err := colfmt.ReadRows(opts.input, opts.column, stdin)
		if err != nil {
			logger.Error().Err(err).Str("input", opts.input).Msg("read input")
			return &ExitError{Code: 1, Message: err.Error(), Err: err}
		}
		rows = append(rows, read...)
	}

	results := colfmt.ReformatAll(ctx, engine, spec, rows, cfg.BatchOptions())
	out := make([]string, 0, len(results))
	for _, result := range results {
		if result.OK() {
			out = append(out, result.Output)
		}
	}

	if err := writeOutput(opts, spec.Kind(), stdout, out); err != nil {
		return err
	}

	summary := colfmt.Summarize(results)
	logger.Info().Int("total", summary.Total).Int("ok", summary.OK).Int("failed", summary.Failed).Msg("batch done")
	if summary.Failed > 0 {
		cause := firstError(results)
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("%d of %d rows failed: %v", summary.Failed, summary.Total, cause),
			Err:     cause,
		}
	}
	return nil
}

func configOptions(opts *cliOptions, logger zerolog.Logger) []colfmt.Option {
	options := []colfmt.Option{
		colfmt.WithLogger(logger),
		colfmt.WithDefaultLocale(opts.defaultLocale),
		colfmt.WithFallbackLocale(opts.fallbackLocale),
		colfmt.WithSeed(opts.seed),
		colfmt.WithWorkers(opts.workers),
	}
	if len(opts.registries) > 0 {
		options = append(options, colfmt.WithRegistryFiles(opts.registries...))
	}
	if opts.phoneMetadata {
		options = append(options, colfmt.WithSpecProvider(libphonenumber.NewProvider()))
	}
	if opts.validatePhone {
		options = append(options, colfmt.WithValidator(libphonenumber.NewValidator()))
	}
	return options
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func generateOnly(opts *cliOptions, engine *colfmt.Engine, kind string, hasValues bool, stdout io.Writer) error {
	if hasValues || opts.input != "" {
		err := fmt.Errorf("%w: %s has no fixed pattern and can only be generated", colfmt.ErrUnknownFormat, kind)
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}

	generated, err := engine.GenerateEmails(opts.count)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	var out []string
	for value := range generated {
		out = append(out, value)
	}
	return writeOutput(opts, kind, stdout, out)
}

func writeOutput(opts *cliOptions, kind string, stdout io.Writer, values []string) error {
	if opts.output == "" {
		return colfmt.WriteRows(stdout, values)
	}

	if strings.EqualFold(filepath.Ext(opts.output), ".xlsx") {
		header := opts.column
		if header == "" {
			header = kind
		}
		if err := colfmt.WriteXLSX(opts.output, header, values); err != nil {
			return &ExitError{Code: 1, Message: err.Error(), Err: err}
		}
		return nil
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	if err := colfmt.WriteRows(f, values); err != nil {
		f.Close()
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	if err := f.Close(); err != nil {
		return &ExitError{Code: 1, Message: err.Error(), Err: err}
	}
	return nil
}

func listRegistry(w io.Writer, registry *colfmt.PatternRegistry) error {
	fmt.Fprintf(w, "default locale: %s\n", registry.DefaultLocale())
	for _, locale := range registry.Locales() {
		fmt.Fprintf(w, "%s\n", locale)
		for _, kind := range registry.Kinds(locale) {
			spec, err := registry.Lookup(locale, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %-12s %s\n", kind, spec.Pattern())
		}
	}
	return nil
}

func firstError(results []colfmt.RowResult) error {
	for _, result := range results {
		if result.Err != nil {
			return fmt.Errorf("row %d: %w", result.Row, result.Err)
		}
	}
	return nil
}
