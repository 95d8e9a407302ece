package review

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"revq/internal/cli/paramutils"
	"revq/internal/cli/utils"
	"revq/internal/clientutils"
	"revq/internal/persistance"
	"revq/internal/pkg/client"
	"revq/internal/tui"
)

// RunTUI resolves the repository under review and starts the terminal
// interface. The root command uses it as its default action.
func RunTUI(cmd *cobra.Command, args []string) error {
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

	c, err := clientutils.ClientFactory{}.DefaultClient(params.Provider)
	if err != nil {
		return err
	}

	state := persistance.GetDefault()

	if path, err := paramutils.GetRepoPath(cmd.Flags()); err == nil {
		err = state.AddVisited(params.Name, string(params.Provider), path)
		if err != nil {
			log.Debug().Err(err).Msg("unable to record repository visit")
		}
	}

	flags := paramutils.NewFlagRepo(cmd.Flags())
	filter := flags.GetStringOrDefault("filter", "")
	if filter == "" {
		filter, err = state.GetFilter(params.Name, string(params.Provider))
		if err != nil {
			log.Debug().Err(err).Msg("unable to load the saved filter")
		}
	}

	lf, err := client.ParseListFilter(filter)
	if err != nil {
		return err
	}

	return tui.Run(&tui.Options{
		Client:      c,
		Repository:  r,
		Filter:      lf,
		Persistance: state,
	})
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "review",
		Aliases: []string{"rv"},
		Short:   "Review pull requests in the terminal",
		Long:    `Opens the interactive terminal interface for reviewing pull requests`,
		Run:     utils.RunCommandWrapper(RunTUI),
	}

	cmd.Flags().
		StringP("filter", "f", "", "initial pull request filter (all, mine, reviewing)")

	return cmd
}
