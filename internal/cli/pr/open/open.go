package open

import (
	"fmt"

	"github.com/spf13/cobra"

	"revq/internal/cli/paramutils"
	"revq/internal/cli/utils"
	"revq/internal/pkg/client"
)

func runCmd(cmd *cobra.Command, args []string) error {
	params, err := paramutils.GetRepoParams(cmd.Flags())
	if err != nil {
		return err
	}

	r, err := client.NewRepositoryFromOptions(&client.RepositoryOptions{
		Provider:           params.Provider,
		FullRepositoryName: params.Name,
	})
	if err != nil {
		return err
	}

	id, err := paramutils.ParseIDArg(args)
	if err != nil {
		return err
	}

	url := webURL(r, id)

	flags := paramutils.NewFlagRepo(cmd.Flags())
	if flags.GetBoolOrDefault("print", false) {
		fmt.Println(url)
		return nil
	}

	return utils.OpenInBrowser(url)
}

// webURL is the pull request page for an id, or the pull request list
// page when no id is given.
func webURL(r *client.Repository, id int) string {
	if id > 0 {
		return fmt.Sprintf("%s/pull-requests/%d", r.WebURL(), id)
	}

	return fmt.Sprintf("%s/pull-requests", r.WebURL())
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [ID]",
		Aliases: []string{"o", "op"},
		Args:    cobra.MaximumNArgs(1),
		Short:   "Open pull requests in the browser",
		Long:    `Opens the pull request page on the web service hosting your origin repository`,
		Run:     utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().Bool("print", false, "print the pull request URL instead of opening it")

	return cmd
}
