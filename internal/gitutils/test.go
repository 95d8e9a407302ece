package gitutils

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type MockGoGitRepository struct {
	HeadValue      *plumbing.Reference
	RemotesValue   []*git.Remote
	ReferenceValue *plumbing.Reference
	CommitValue    *object.Commit
	Err            error
}

func (r *MockGoGitRepository) Head() (*plumbing.Reference, error) {
	return r.HeadValue, r.Err
}

func (r *MockGoGitRepository) Remotes() ([]*git.Remote, error) {
	return r.RemotesValue, r.Err
}

func (r *MockGoGitRepository) Reference(
	plumbing.ReferenceName,
	bool,
) (*plumbing.Reference, error) {
	return r.ReferenceValue, r.Err
}

func (r *MockGoGitRepository) CommitObject(
	plumbing.Hash,
) (*object.Commit, error) {
	return r.CommitValue, r.Err
}
