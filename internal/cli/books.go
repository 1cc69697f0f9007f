package cli

import (
	"fmt"
	"strconv"

	"bookshelf/internal/entity"
	"bookshelf/internal/usecase"

	"github.com/spf13/cobra"
)

const noResult = "No result found"

func formatRow(row usecase.Row) string {
	return fmt.Sprintf("%d  %s", row.Position, row.Record().Display())
}

func parsePosition(f *OutputFormatter, arg string) (int, error) {
	position, err := strconv.Atoi(arg)
	if err != nil {
		_ = f.Error(ErrCodeBadArgument, fmt.Sprintf("position must be an integer, got %q", arg), nil)
		return 0, WrapExitError(ExitCommandError, "bad position", err)
	}
	return position, nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books with their positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			rows := s.library.Rows()
			lines := make([]string, len(rows))
			for i, row := range rows {
				lines[i] = formatRow(row)
			}
			return f.Success(rows, lines...)
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a book unless the same title and author already exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			row, err := s.library.Add(cmd.Context(), usecase.BookInput{Title: args[0], Author: args[1]})
			if err != nil {
				return reportError(f, err)
			}
			return f.Success(row, "Added "+formatRow(row))
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <position> <title> <author>",
		Short: "Replace the book at a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			position, err := parsePosition(f, args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			in := usecase.BookInput{Title: args[1], Author: args[2]}
			if err := s.library.Update(cmd.Context(), position, in); err != nil {
				return reportError(f, err)
			}
			row := usecase.Row{Position: position, Title: in.Title, Author: in.Author}
			return f.Success(row, "Updated "+formatRow(row))
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <position>",
		Short: "Delete the book at a position; later books move up by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			position, err := parsePosition(f, args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.library.Delete(cmd.Context(), position); err != nil {
				return reportError(f, err)
			}
			return f.Success(map[string]int{"deleted": position}, fmt.Sprintf("Deleted position %d", position))
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find books whose title or author contains keyword, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			records, err := s.library.Search(args[0])
			if err != nil {
				return reportError(f, err)
			}
			return f.Success(records, searchLines(records)...)
		},
	}
}

func searchLines(records []entity.Record) []string {
	if len(records) == 0 {
		return []string{noResult}
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Display()
	}
	return lines
}
