package create

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/go-diff/diff"
	"github.com/spf13/cobra"

	"revq/internal/cli/paramutils"
	"revq/internal/cli/utils"
	"revq/internal/clientutils"
	"revq/internal/errcodes"
	"revq/internal/gitutils"
	"revq/internal/pkg/client"
)

func setUpFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("destination", "d", "", "destination branch of your pull request (default repository default branch)")
	cmd.Flags().
		StringP("source", "s", "", "source branch of your pull request (default checked out branch)")
	cmd.Flags().
		StringP("title", "t", "", "the title of the pull request (default last commit message)")
	cmd.Flags().String("description", "", "the description of the pull request")
	cmd.Flags().Bool("close", true, "close the source branch after merge")
	cmd.Flags().Bool("draft", false, "mark the pull request as draft")
	cmd.Flags().Bool("no-edit", false, "skip the message editor and reviewer prompt")
	cmd.Flags().Bool("no-push", false, "do not push the source branch before creating")
}

func runCmd(cmd *cobra.Command, args []string) error {
	repoParams, err := paramutils.GetRepoParams(cmd.Flags())
	if err != nil {
		return err
	}

	path, err := paramutils.GetRepoPath(cmd.Flags())
	if err != nil {
		return err
	}

	git, err := gitutils.GetRepo(path)
	if err != nil {
		return err
	}

	params := &createCmdParams{Repository: *repoParams, CloseBranch: true}
	fillDefaultParams(params, git)
	fillFlagParams(paramutils.NewFlagRepo(cmd.Flags()), params)

	if err := params.Validate(); err != nil {
		return err
	}

	c, err := clientutils.ClientFactory{}.DefaultClient(
		params.Repository.Provider,
	)
	if err != nil {
		return err
	}

	r, err := client.NewRepositoryFromOptions(&client.RepositoryOptions{
		Provider:           params.Repository.Provider,
		FullRepositoryName: params.Repository.Name,
	})
	if err != nil {
		return err
	}

	return execute(c, git, r, params)
}

func execute(
	c client.Client,
	git gitutils.GitUtilsClient,
	repo *client.Repository,
	params *createCmdParams,
) error {
	diffText, err := git.DiffAgainst(params.Destination, params.Source)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diffText) == "" {
		return errcodes.ErrNoChangesOnBranch
	}

	fmt.Printf(
		"Creating a pull request: %s -> %s\n",
		params.Source,
		params.Destination,
	)
	printDiffSummary(os.Stdout, diffText)

	fillDefaultMessage(c, repo, params)

	if !params.NoEdit {
		title, description, err := utils.PromptMessageEditor(
			params.Title,
			params.Description,
		)
		if err != nil {
			return err
		}
		params.Title = title
		params.Description = description
	}

	if params.Title == "" {
		return errcodes.ErrMissingTitle
	}

	if !params.NoPush {
		fmt.Printf("Pushing %s to origin...\n", params.Source)
		if err := git.PushBranch(params.Source); err != nil {
			return err
		}
	}

	pr, err := c.CreatePullRequest(&client.CreatePullRequestOptions{
		Repository:        repo,
		Title:             params.Title,
		Description:       params.Description,
		Source:            params.Source,
		Destination:       params.Destination,
		CloseSourceBranch: params.CloseBranch,
		Draft:             params.Draft,
		Reviewers:         resolveReviewers(c, repo, params),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created a pull request: %s -> %s\n", pr.Source, pr.Destination)
	fmt.Println("  ", pr.URL)

	return nil
}

// printDiffSummary shows what the pull request will contain before any
// prompts run, one line per file plus a total.
func printDiffSummary(w io.Writer, diffText string) {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		log.Debug().Err(err).Msg("unable to parse branch diff")
		return
	}

	var added, deleted int64
	for _, fd := range fileDiffs {
		stat := fd.Stat()
		fmt.Fprintf(
			w,
			"  %s +%d -%d\n",
			diffFileName(fd),
			stat.Added+stat.Changed,
			stat.Deleted+stat.Changed,
		)
		added += int64(stat.Added + stat.Changed)
		deleted += int64(stat.Deleted + stat.Changed)
	}

	fmt.Fprintf(w, "%d files changed, +%d -%d\n", len(fileDiffs), added, deleted)
}

func diffFileName(fd *diff.FileDiff) string {
	name := strings.TrimPrefix(fd.NewName, "b/")
	if name == "/dev/null" {
		name = strings.TrimPrefix(fd.OrigName, "a/")
	}

	return name
}

// fillDefaultMessage asks the provider for its generated message and
// uses it for whatever the user did not supply. Best effort, creating
// still works when the endpoint is unavailable.
func fillDefaultMessage(
	c client.Client,
	repo *client.Repository,
	params *createCmdParams,
) {
	if params.Title != "" && params.Description != "" {
		return
	}

	dd, err := c.GetDefaultDescription(&client.GetDefaultDescriptionOptions{
		Repository:  repo,
		Source:      params.Source,
		Destination: params.Destination,
	})
	if err != nil {
		log.Debug().Err(err).Msg("no default pull request message")
		return
	}

	if params.Title == "" {
		params.Title = dd.Title
	}
	if params.Description == "" {
		params.Description = dd.Description
	}
}

// resolveReviewers merges codeowners with the provider's recommended
// reviewers, codeowners first and preselected in the prompt.
func resolveReviewers(
	c client.Client,
	repo *client.Repository,
	params *createCmdParams,
) []*client.User {
	owners, err := c.GetCodeowners(&client.GetCodeownersOptions{
		Repository:  repo,
		Source:      params.Source,
		Destination: params.Destination,
	})
	if err != nil {
		log.Debug().Err(err).Msg("unable to load codeowners")
	}

	recommended, err := c.GetRecommendedReviewers(
		&client.GetRecommendedReviewersOptions{Repository: repo},
	)
	if err != nil {
		log.Debug().Err(err).Msg("unable to load recommended reviewers")
	}

	candidates := client.DedupReviewers(owners, recommended)
	if len(candidates) == 0 {
		return nil
	}

	if params.NoEdit {
		return candidates[:len(owners)]
	}

	selected, err := utils.PromptReviewerMultiSelect(candidates, len(owners))
	if err != nil {
		log.Debug().Err(err).Msg("reviewer prompt aborted")
		return candidates[:len(owners)]
	}

	return selected
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"cr"},
		Short:   "Create a pull request",
		Long:    `Creates a pull request on the web service hosting your origin repository`,
		Run:     utils.RunCommandWrapper(runCmd),
	}

	setUpFlags(cmd)

	return cmd
}
