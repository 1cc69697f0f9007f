package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/store"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Storage string // overrides BOOKSHELF_STORAGE
	Data    string // overrides BOOKSHELF_DATA
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bookshelf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "bookshelf - a personal book catalog",
		Long: `Keep a list of books (title and author) on disk.

Records are addressed by their zero-based position as shown by "list".
The storage backend is chosen with --storage or BOOKSHELF_STORAGE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", fmt.Sprintf("storage driver %v", config.Drivers))
	cmd.PersistentFlags().StringVar(&opts.Data, "data", "", "data file or directory for the storage driver")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra have not been reported yet.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	return exitErr.Code
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// session is an opened catalog plus what was needed to open it.
type session struct {
	cfg     config.Config
	logger  zerolog.Logger
	library *usecase.Library
	close   func() error
}

func openSession(cmd *cobra.Command, opts *RootOptions, formatter *OutputFormatter) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}
	if opts.Storage != "" {
		cfg.Storage.Driver = opts.Storage
		if opts.Data == "" {
			cfg.Storage.Path = ""
		}
	}
	if opts.Data != "" {
		cfg.Storage.Path = opts.Data
	}
	if err := cfg.Validate(); err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	ctx := cmd.Context()
	storage, closeFn, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "open storage", err)
	}
	formatter.VerboseLog("storage: %s %s", cfg.Storage.Driver, cfg.Storage.DataPath())

	c := catalog.New(ctx, storage, catalog.WithLogger(logger))
	return &session{
		cfg:     cfg,
		logger:  logger,
		library: usecase.NewLibrary(c),
		close:   closeFn,
	}, nil
}

// reportError prints a library error and converts it to an ExitError.
func reportError(f *OutputFormatter, err error) error {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		_ = f.Error(ErrCodeInvalidInput, "Fields cannot be empty", verr.Fields)
		return WrapExitError(ExitFailure, "invalid input", err)
	case errors.Is(err, usecase.ErrDuplicate):
		_ = f.Error(ErrCodeDuplicate, "Duplicate book not allowed", nil)
		return WrapExitError(ExitFailure, "duplicate", err)
	case errors.Is(err, usecase.ErrEmptyKeyword):
		_ = f.Error(ErrCodeEmptyKeyword, "Enter search keyword", nil)
		return WrapExitError(ExitFailure, "empty keyword", err)
	case errors.Is(err, catalog.ErrOutOfRange):
		_ = f.Error(ErrCodeOutOfRange, err.Error(), nil)
		return WrapExitError(ExitFailure, "out of range", err)
	default:
		_ = f.Error(ErrCodeStorage, err.Error(), nil)
		return WrapExitError(ExitCommandError, "command failed", err)
	}
}
