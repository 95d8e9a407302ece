package create

import (
	"strings"

	"revq/internal/cli/paramutils"
	"revq/internal/errcodes"
	"revq/internal/gitutils"
)

type createCmdParams struct {
	Repository  paramutils.RepositoryParams
	Source      string
	Destination string
	Title       string
	Description string
	CloseBranch bool
	Draft       bool
	NoEdit      bool
	NoPush      bool
}

func (params *createCmdParams) Validate() error {
	if params.Source == "" {
		return errcodes.ErrMissingSource
	}
	if params.Destination == "" {
		return errcodes.ErrMissingDestination
	}
	if params.Source == params.Destination {
		return errcodes.ErrSameSourceAndDestination
	}

	return nil
}

// fillDefaultParams derives source, destination and title from the
// local repository. The destination prefers the remote's default
// branch and falls back to the nearest long lived branch.
func fillDefaultParams(p *createCmdParams, git gitutils.GitUtilsClient) {
	source, err := git.GetCurrentBranch()
	if err == nil {
		p.Source = source
	}

	destination, err := git.GetDefaultBranch()
	if err != nil {
		destination, err = git.GetClosestBranch(
			[]string{"main", "master", "develop"},
		)
	}
	if err == nil {
		p.Destination = destination
	}

	message, err := git.GetCurrentCommitMessage()
	if err == nil {
		p.Title = strings.SplitN(strings.TrimSpace(message), "\n", 2)[0]
	}
}

func fillFlagParams(flags paramutils.FlagRepo, params *createCmdParams) {
	params.Source = flags.GetStringOrDefault("source", params.Source)
	params.Destination = flags.GetStringOrDefault(
		"destination",
		params.Destination,
	)
	params.Title = flags.GetStringOrDefault("title", params.Title)
	params.Description = flags.GetStringOrDefault(
		"description",
		params.Description,
	)
	params.CloseBranch = flags.GetBoolOrDefault("close", params.CloseBranch)
	params.Draft = flags.GetBoolOrDefault("draft", params.Draft)
	params.NoEdit = flags.GetBoolOrDefault("no-edit", params.NoEdit)
	params.NoPush = flags.GetBoolOrDefault("no-push", params.NoPush)
}
