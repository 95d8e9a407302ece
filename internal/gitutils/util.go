package gitutils

import (
	"regexp"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"revq/internal/pkg/client"
	"revq/internal/pkg/fs"
)

var (
	ErrCannotGetLocalRepository         = errors.New("cannot get local repository")
	ErrUnableToParseRemoteRepositoryURI = errors.New("unable to parse remote repository URI")
	ErrAncestorCommitNotFound           = errors.New("ancestor commit not found")
	ErrCannotFindAnyBranchReference     = errors.New("cannot find any branch reference")
)

var getWorkingDir = func(fs fs.Filesystem) (string, error) {
	return fs.Getwd()
}

var openLocalRepo = func() (*GoGit, error) {
	wd, err := getWorkingDir(fs.OS{})
	if err != nil {
		return nil, errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	return GetRepo(wd)
}

var remoteURIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`git@(.*):(.*)/(.*)\.git`),
	regexp.MustCompile(`https?://(?:.*@)?(.*?)/(.*)/(.*?)(?:\.git)?$`),
}

var extractRepositoryTokens = func(uri string) ([]string, error) {
	for _, r := range remoteURIPatterns {
		m := r.FindStringSubmatch(uri)
		if len(m) == 4 {
			return m[1:], nil
		}
	}

	return nil, ErrUnableToParseRemoteRepositoryURI
}

var parseRepositoryProvider = func(p string) (client.RepositoryProvider, error) {
	return client.ParseRepositoryProvider(p)
}

var parseRepositoryString = func(repoString string) (*client.Repository, error) {
	m, err := extractRepositoryTokens(repoString)
	if err != nil {
		return nil, err
	}

	p, err := parseRepositoryProvider(m[0])
	if err != nil {
		return nil, err
	}

	return &client.Repository{
		Provider:  p,
		Workspace: m[1],
		Slug:      m[2],
	}, nil
}

var getRemoteInfoList = func(g *GoGit) ([]*client.Repository, error) {
	var repos []*client.Repository

	repoURLs, err := g.GetRemoteURLs()
	if err != nil {
		return nil, err
	}

	for _, url := range repoURLs {
		pRepo, err := parseRepositoryString(url)
		if err != nil {
			return nil, err
		}

		repos = append(repos, pRepo)
	}

	if len(repos) == 0 {
		return nil, ErrUnableToParseRemoteRepositoryURI
	}

	return repos, nil
}

// GetRemoteInfo resolves the repository the first remote points at.
func (g *GoGit) GetRemoteInfo() (*client.Repository, error) {
	repos, err := getRemoteInfoList(g)
	if err != nil {
		return nil, err
	}

	return repos[0], nil
}

// GetRemoteInfo resolves the repository backing the working directory.
func GetRemoteInfo() (*client.Repository, error) {
	g, err := openLocalRepo()
	if err != nil {
		return nil, err
	}

	return g.GetRemoteInfo()
}

type branchCommitMap map[string]*object.Commit

var getBranchCommits = func(g *GoGit, branches []string) (branchCommitMap, error) {
	cSlice := make(branchCommitMap)
	for _, v := range branches {
		bCommit, err := g.BranchCommit(v)
		if err != nil {
			continue
		}

		cSlice[v] = bCommit
	}

	if len(cSlice) == 0 {
		return nil, ErrCannotFindAnyBranchReference
	}

	return cSlice, nil
}

func walkHistory(c *object.Commit, goalMap branchCommitMap, depth int) (string, error) {
	p := c
	for i := 0; i < depth; i++ {
		parent, err := p.Parent(0)
		if err != nil {
			return "", err
		}

		for b, v := range goalMap {
			if v.Hash == parent.Hash {
				return b, nil
			}
		}

		p = parent
	}

	return "", ErrAncestorCommitNotFound
}

// GetClosestBranch walks first-parent history looking for the nearest
// commit one of the candidate branches points at.
func (g *GoGit) GetClosestBranch(branches []string) (string, error) {
	c, err := g.CurrentCommit()
	if err != nil {
		return "", err
	}

	cSlice, err := getBranchCommits(g, branches)
	if err != nil {
		return "", err
	}

	return walkHistory(c, cSlice, 10)
}
