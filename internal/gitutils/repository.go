package gitutils

import (
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"revq/internal/errcodes"
	"revq/internal/pkg/client"
)

type goGitRepository interface {
	Head() (*plumbing.Reference, error)
	Remotes() ([]*git.Remote, error)
	Reference(plumbing.ReferenceName, bool) (*plumbing.Reference, error)
	CommitObject(plumbing.Hash) (*object.Commit, error)
}

// GitUtilsClient is the local repository surface the commands consume.
type GitUtilsClient interface {
	GetCurrentBranch() (string, error)
	GetCurrentCommitMessage() (string, error)
	GetRemoteInfo() (*client.Repository, error)
	GetDefaultBranch() (string, error)
	GetClosestBranch(branches []string) (string, error)
	PushBranch(branch string) error
	DiffAgainst(destination, source string) (string, error)
}

// GoGit reads repository state through go-git and shells out to the
// git binary for the operations that need the user's transport setup.
type GoGit struct {
	Git  goGitRepository
	Path string
}

var openRepo = func(input string) (*git.Repository, string, error) {
	dir := input
	for dir != "/" && dir != "." {
		repo, err := git.PlainOpen(dir)
		if err == nil {
			return repo, dir, nil
		}

		dir = path.Dir(dir)
	}

	return nil, "", fmt.Errorf("could not open a repository at %s or above", input)
}

func GetRepo(path string) (*GoGit, error) {
	repo, root, err := openRepo(path)
	if err != nil {
		return nil, errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	return &GoGit{Git: repo, Path: root}, nil
}

// GetRepoRootDir resolves the repository root above the given path.
func GetRepoRootDir(path string) (string, error) {
	_, root, err := openRepo(path)
	if err != nil {
		return "", errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	return root, nil
}

func (g *GoGit) GetCurrentBranch() (string, error) {
	headRef, err := g.Git.Head()
	if err != nil {
		return "", err
	}

	return headRef.Name().Short(), nil
}

func (g *GoGit) CurrentCommit() (*object.Commit, error) {
	head, err := g.Git.Head()
	if err != nil {
		return nil, err
	}

	return g.Git.CommitObject(head.Hash())
}

func (g *GoGit) GetCurrentCommitMessage() (string, error) {
	c, err := g.CurrentCommit()
	if err != nil {
		return "", err
	}

	return c.Message, nil
}

func (g *GoGit) BranchCommit(name string) (*object.Commit, error) {
	bRef, err := g.Git.Reference(plumbing.NewBranchReferenceName(name), false)
	if err != nil {
		return nil, err
	}

	return g.Git.CommitObject(bRef.Hash())
}

func (g *GoGit) GetRemoteURLs() ([]string, error) {
	var repoURLs []string

	remotes, err := g.Git.Remotes()
	if err != nil {
		return nil, err
	}

	for _, re := range remotes {
		repoURLs = append(repoURLs, re.Config().URLs...)
	}

	return repoURLs, nil
}

// GetDefaultBranch reads the branch origin/HEAD points at, which is
// the sensible default destination for a new pull request.
func (g *GoGit) GetDefaultBranch() (string, error) {
	ref, err := g.Git.Reference("refs/remotes/origin/HEAD", false)
	if err != nil {
		return "", err
	}

	return strings.TrimPrefix(ref.Target().Short(), "origin/"), nil
}

var execGit = func(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()

	return string(out), err
}

// PushBranch publishes the branch through the git binary so the
// user's SSH agent and credential helpers apply. Rejections and
// allowlist blocks map to sentinel errors.
func (g *GoGit) PushBranch(branch string) error {
	out, err := execGit(g.Path, "push", "--set-upstream", "origin", branch)
	if err != nil {
		if strings.Contains(strings.ToLower(out), "whitelist your ip") {
			return errcodes.ErrIPAllowlistBlocked
		}

		if strings.Contains(out, "[rejected]") {
			return errcodes.ErrPushRejected
		}

		return errors.Wrap(err, strings.TrimSpace(out))
	}

	return nil
}

// DiffAgainst returns the merge-base diff the new pull request would
// carry, the same one the service shows after creation.
func (g *GoGit) DiffAgainst(destination, source string) (string, error) {
	out, err := execGit(g.Path, "diff", fmt.Sprintf("%s...%s", destination, source))
	if err != nil {
		return "", errors.Wrap(err, strings.TrimSpace(out))
	}

	return out, nil
}
