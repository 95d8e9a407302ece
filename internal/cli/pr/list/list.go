package list

import (
	"fmt"

	"github.com/gosuri/uilive"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"revq/internal/cli/paramutils"
	"revq/internal/cli/utils"
	"revq/internal/clientutils"
	"revq/internal/pkg/client"
)

func setUpFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("filter", "f", "", "filter pull requests (all, mine, reviewing)")
}

func runCmd(cmd *cobra.Command, args []string) error {
	params, err := paramutils.GetRepoParams(cmd.Flags())
	if err != nil {
		return err
	}

	flags := paramutils.NewFlagRepo(cmd.Flags())
	filter, err := client.ParseListFilter(flags.GetStringOrDefault("filter", ""))
	if err != nil {
		return err
	}

	c, err := clientutils.ClientFactory{}.DefaultClient(params.Provider)
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

	return execute(c, r, filter)
}

func execute(
	c client.Client,
	repo *client.Repository,
	filter client.ListFilter,
) error {
	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	fmt.Fprintln(writer, "Loading pull requests...")

	prs, err := c.ListPullRequests(&client.ListPullRequestsOptions{
		Repository: repo,
		Filter:     filter,
	})
	if err != nil {
		return err
	}

	if len(prs) == 0 {
		fmt.Fprintln(writer, emptyMessage(filter))
		return nil
	}

	fmt.Fprintln(writer, renderTable(prs))

	return nil
}

func emptyMessage(filter client.ListFilter) string {
	if filter == client.ListFilter_MINE {
		return "No pull requests authored by you"
	}

	return "No pull requests found"
}

func renderTable(prs []*client.PullRequest) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "TITLE", "STATUS", "SRC/DEST", "URL")
	table.AddRow("-", "-----", "------", "--------", "---")

	for _, v := range prs {
		table.AddRow(
			fmt.Sprintf("#%d", v.ID),
			v.Title,
			string(v.Status),
			fmt.Sprintf("%s -> %s", v.Source, v.Destination),
			v.URL,
		)
	}

	return table.String()
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pull requests",
		Long:    `Lists open pull requests on the web service hosting your origin repository`,
		Run:     utils.RunCommandWrapper(runCmd),
	}

	setUpFlags(cmd)

	return cmd
}
