package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"revq/internal/errcodes"
)

var (
	ErrUnknownRepositoryProvider = errors.New(strings.TrimSpace(`
		unknown repository provider, expected (bitbucket)
	`))
	ErrUnknownListFilter = errors.New("unknown list filter, expected (all, mine, reviewing)")
)

// Client is the surface the TUI and the CLI commands consume. One
// implementation exists per repository provider; all operations are
// synchronous and safe to call from worker goroutines.
type Client interface {
	ListPullRequests(o *ListPullRequestsOptions) ([]*PullRequest, error)
	GetPullRequest(o *GetPullRequestOptions) (*PullRequest, error)
	GetDiff(o *GetDiffOptions) (string, error)
	GetDiffstat(o *GetDiffstatOptions) ([]*DiffstatEntry, error)
	GetMergeRestrictions(o *GetMergeRestrictionsOptions) (*MergeRestrictions, error)
	ApprovePullRequest(o *ApproveOptions) error
	CreatePullRequest(o *CreatePullRequestOptions) (*PullRequest, error)
	GetDefaultDescription(o *GetDefaultDescriptionOptions) (*DefaultDescription, error)
	GetRecommendedReviewers(o *GetRecommendedReviewersOptions) ([]*User, error)
	GetCodeowners(o *GetCodeownersOptions) ([]*User, error)
	GetCurrentUser() (*User, error)
	GetCurrentUserStatus() (*UserStatus, error)
}

type RepositoryProvider string

func (rp RepositoryProvider) IsValid() bool {
	v := reflect.ValueOf(*RepositoryProviderEnum)

	for i := 0; i < v.NumField(); i++ {
		if rp == v.Field(i).Interface() {
			return true
		}
	}

	return false
}

type providerList struct {
	BITBUCKET RepositoryProvider
}

var RepositoryProviderEnum = &providerList{
	BITBUCKET: RepositoryProvider("bitbucket"),
}

func ParseRepositoryProvider(s string) (RepositoryProvider, error) {
	switch s {
	case "bitbucket.org", "bitbucket":
		return RepositoryProviderEnum.BITBUCKET, nil
	default:
		aliases := viper.GetStringSlice("bitbucket.aliases")
		if aliases == nil {
			log.Warn().
				Msg(fmt.Sprintf("parsing unknown provider %v, add repository info to the local revq configuration (.revqcfg)", s))
			break
		}

		for _, a := range aliases {
			if a == s {
				return RepositoryProviderEnum.BITBUCKET, nil
			}
		}
	}

	return "", ErrUnknownRepositoryProvider
}

// ListFilter selects which open pull requests a list fetch returns.
type ListFilter string

const (
	ListFilter_ALL       ListFilter = "all"
	ListFilter_MINE      ListFilter = "mine"
	ListFilter_REVIEWING ListFilter = "reviewing"
)

func ParseListFilter(s string) (ListFilter, error) {
	switch s {
	case "all":
		return ListFilter_ALL, nil
	case "mine", "":
		return ListFilter_MINE, nil
	case "reviewing":
		return ListFilter_REVIEWING, nil
	}

	return "", ErrUnknownListFilter
}

// Title is the list view heading for the filter.
func (f ListFilter) Title() string {
	switch f {
	case ListFilter_ALL:
		return "All open pullrequests"
	case ListFilter_REVIEWING:
		return "Open pullrequests I'm reviewing"
	default:
		return "My open pullrequests"
	}
}

type Repository struct {
	Provider    RepositoryProvider
	Workspace   string
	Slug        string
	Name        string
	Description string
	IsPrivate   bool
}

// FullName returns the "workspace/slug" form used in API paths.
func (r *Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Workspace, r.Slug)
}

func (r *Repository) WebURL() string {
	return fmt.Sprintf("https://bitbucket.org/%s", r.FullName())
}

type RepositoryOptions struct {
	Provider           RepositoryProvider
	FullRepositoryName string
}

func NewRepositoryFromOptions(options *RepositoryOptions) (*Repository, error) {
	v := strings.Split(options.FullRepositoryName, "/")
	if len(v) != 2 || v[0] == "" || v[1] == "" {
		return nil, errcodes.ErrRepositoryMustBeInFormOwnerRepo
	}

	return &Repository{
		Provider:  options.Provider,
		Workspace: v[0],
		Slug:      v[1],
	}, nil
}

type ListPullRequestsOptions struct {
	Repository *Repository
	Filter     ListFilter
}

type GetPullRequestOptions struct {
	Repository *Repository
	ID         int
}

type GetDiffOptions struct {
	Repository *Repository
	ID         int
}

type GetDiffstatOptions struct {
	Repository *Repository
	ID         int
}

type GetMergeRestrictionsOptions struct {
	Repository *Repository
	ID         int
}

type ApproveOptions struct {
	Repository *Repository
	ID         int
}

type CreatePullRequestOptions struct {
	Repository        *Repository
	Title             string
	Description       string
	Source            string
	Destination       string
	CloseSourceBranch bool
	Draft             bool
	Reviewers         []*User
}

type GetDefaultDescriptionOptions struct {
	Repository  *Repository
	Source      string
	Destination string
}

type GetRecommendedReviewersOptions struct {
	Repository *Repository
}

type GetCodeownersOptions struct {
	Repository  *Repository
	Source      string
	Destination string
}
