package errcodes

import "errors"

var (
	ErrMissingRepository               = errors.New("repository is missing")
	ErrMissingProvider                 = errors.New("provider is missing")
	ErrMissingSource                   = errors.New("source branch is missing")
	ErrMissingDestination              = errors.New("destination branch is missing")
	ErrMissingTitle                    = errors.New("title is missing")
	ErrSomeRepoParamsMissing           = errors.New("must specify both provider and repository, or none")
	ErrRepositoryMustBeInFormOwnerRepo = errors.New("repository must be in the form of 'workspace/repo'")
	ErrRepositoryProviderUnknown       = errors.New("repository provider is unknown")
	ErrMissingCredentials              = errors.New("bitbucket credentials are missing, run 'revq auth login'")
	ErrNoPullRequestSelected           = errors.New("no pull request selected")
	ErrInvalidPullRequestID            = errors.New("pull request id must be a number")
	ErrPushRejected                    = errors.New("push rejected by the remote")
	ErrNoChangesOnBranch               = errors.New("no changes on local branch")
	ErrSameSourceAndDestination        = errors.New("source and destination branches are the same")
	ErrUnknownAlias                    = errors.New("unknown alias")
	ErrMissingAliasCommand             = errors.New("alias command is missing")

	// ErrIPAllowlistBlocked marks a service-side rejection of the client's
	// network address. Callers match it with errors.Is and tell the user to
	// fix allowlisting instead of retrying.
	ErrIPAllowlistBlocked = errors.New("access blocked, client IP is not on the workspace allowlist")
)
