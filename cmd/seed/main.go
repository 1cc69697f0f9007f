package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/store"
	"bookshelf/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var classics = []usecase.BookInput{
	{Title: "Pride and Prejudice", Author: "Jane Austen"},
	{Title: "Emma", Author: "Jane Austen"},
	{Title: "Dune", Author: "Frank Herbert"},
	{Title: "Foundation", Author: "Isaac Asimov"},
	{Title: "Nineteen Eighty-Four", Author: "George Orwell"},
	{Title: "Animal Farm", Author: "George Orwell"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien"},
	{Title: "Moby-Dick", Author: "Herman Melville"},
	{Title: "Frankenstein", Author: "Mary Shelley"},
	{Title: "Dracula", Author: "Bram Stoker"},
	{Title: "Jane Eyre", Author: "Charlotte Brontë"},
	{Title: "Wuthering Heights", Author: "Emily Brontë"},
	{Title: "Crime and Punishment", Author: "Fyodor Dostoevsky"},
	{Title: "War and Peace", Author: "Leo Tolstoy"},
	{Title: "One Hundred Years of Solitude", Author: "Gabriel García Márquez"},
}

var words = []string{"Journey", "Discovery", "Mystery", "Adventure", "Knowledge", "Wisdom", "Truth", "Dream", "Future", "Past"}
var surnames = []string{"Smith", "Okafor", "Nakamura", "Silva", "Novak", "Haddad", "Larsen", "Moreau"}

// Summary counts what a seed run did.
type Summary struct {
	Added   int
	Skipped int
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var generated int
	var seed int64

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Fill the configured catalog with classic books",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})

			ctx := cmd.Context()
			storage, closeStorage, err := store.Open(ctx, cfg.Storage, logger)
			if err != nil {
				return err
			}
			defer closeStorage()

			lib := usecase.NewLibrary(catalog.New(ctx, storage, catalog.WithLogger(logger)))
			books := append(append([]usecase.BookInput{}, classics...), generate(rand.New(rand.NewSource(seed)), generated)...)
			sum, err := seedLibrary(ctx, lib, books, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d books, skipped %d, catalog has %d\n", sum.Added, sum.Skipped, lib.Len())
			return nil
		},
	}
	cmd.Flags().IntVar(&generated, "generate", 0, "also add this many generated books")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for generated books")
	return cmd
}

// seedLibrary adds books, skipping ones already present.
func seedLibrary(ctx context.Context, lib *usecase.Library, books []usecase.BookInput, logger zerolog.Logger) (Summary, error) {
	var sum Summary
	for i, in := range books {
		_, err := lib.Add(ctx, in)
		switch {
		case err == nil:
			sum.Added++
		case errors.Is(err, usecase.ErrDuplicate):
			sum.Skipped++
		default:
			return sum, fmt.Errorf("add %q: %w", in.Title, err)
		}
		if (i+1)%1000 == 0 {
			logger.Info().Int("done", i+1).Int("total", len(books)).Msg("seeding")
		}
	}
	return sum, nil
}

func generate(r *rand.Rand, n int) []usecase.BookInput {
	out := make([]usecase.BookInput, n)
	for i := range out {
		out[i] = usecase.BookInput{
			Title:  fmt.Sprintf("Book Title %d - %s", i+1, words[r.Intn(len(words))]),
			Author: fmt.Sprintf("A. %s", surnames[r.Intn(len(surnames))]),
		}
	}
	return out
}
