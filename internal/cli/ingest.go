package cli

import (
	"fmt"

	"bookshelf/internal/ingest"
	"bookshelf/internal/platform/openlibrary"

	"github.com/spf13/cobra"
)

type ingestOptions struct {
	max     int
	baseURL string
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest <query>",
		Short: "Add books found by an Open Library search",
		Long: `Search Open Library and add each hit's title and first author.

Hits without a title or an author, and books already in the catalog,
are skipped. At most --max books are added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			olCfg := s.cfg.OpenLibrary
			baseURL := olCfg.BaseURL
			if opts.baseURL != "" {
				baseURL = opts.baseURL
			}
			client := openlibrary.NewClient(olCfg.UserAgent, olCfg.RPS, olCfg.MaxRetries, openlibrary.WithBaseURL(baseURL))
			svc := ingest.NewService(client, s.library, s.logger)

			res, err := svc.Run(cmd.Context(), args[0], opts.max)
			if err != nil {
				_ = f.Error(ErrCodeIngest, err.Error(), nil)
				return WrapExitError(ExitFailure, "ingest failed", err)
			}
			return f.Success(res, fmt.Sprintf("Fetched %d, added %d, skipped %d", res.Fetched, res.Added, res.Skipped))
		},
	}

	cmd.Flags().IntVar(&opts.max, "max", ingest.DefaultMax, "maximum number of books to add")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Open Library base URL (defaults to OPENLIBRARY_BASE_URL)")
	return cmd
}
