package pr

import (
	"github.com/spf13/cobra"

	"revq/internal/cli/pr/create"
	"revq/internal/cli/pr/list"
	"revq/internal/cli/pr/open"
	"revq/internal/cli/review"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Manage pull requests",
		Long:  `Lists, creates, reviews and opens pull requests from the command line`,
	}

	cmd.AddCommand(list.New())
	cmd.AddCommand(create.New())
	cmd.AddCommand(open.New())
	cmd.AddCommand(review.New())

	return cmd
}
