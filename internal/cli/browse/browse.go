package browse

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

	flags := paramutils.NewFlagRepo(cmd.Flags())
	if flags.GetBoolOrDefault("print", false) {
		fmt.Println(r.WebURL())
		return nil
	}

	return utils.OpenInBrowser(r.WebURL())
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"br"},
		Short:   "Open the repository in the browser",
		Long:    `Opens the repository page on the web service hosting your origin repository`,
		Run:     utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().Bool("print", false, "print the repository URL instead of opening it")

	return cmd
}
