package cli

import (
	"bookshelf/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd, rootOpts, f)
			if err != nil {
				return err
			}
			defer s.close()

			if err := tui.Run(cmd.Context(), s.library, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return WrapExitError(ExitCommandError, "terminal interface", err)
			}
			return nil
		},
	}
}
