package persistance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"revq/internal/pkg/fs"
)

var ErrRepoInfoNotFound = errors.New("repository has not been visited before")

type PersistanceRepoInfo struct {
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	LastVisited time.Time `json:"lastVisited"`
	Path        string    `json:"path,omitempty"`
	Filter      string    `json:"filter,omitempty"`
}

type state struct {
	Visited []*PersistanceRepoInfo `json:"visited,omitempty"`
}

type PersistanceRepo interface {
	AddVisited(name string, provider string, path string) error
	GetVisited() ([]*PersistanceRepoInfo, error)
	GetInfo(name string, provider string) (*PersistanceRepoInfo, error)
	SetFilter(name string, provider string, filter string) error
	GetFilter(name string, provider string) (string, error)
}

type XDGPersistanceRepo struct {
	s  *state
	fs fs.Filesystem
}

var statePath = func() (string, error) {
	return homedir.Expand("~/.config/revq/state")
}

func (repo *XDGPersistanceRepo) load() error {
	path, err := statePath()
	if err != nil {
		return err
	}

	data, err := repo.fs.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, repo.s)
	if err != nil {
		return fmt.Errorf("cannot load state file: %v", err)
	}

	return nil
}

func (repo *XDGPersistanceRepo) save() error {
	data, err := json.MarshalIndent(repo.s, "", "  ")
	if err != nil {
		return err
	}

	path, err := statePath()
	if err != nil {
		return err
	}

	err = repo.fs.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		return err
	}

	return repo.fs.WriteFile(path, data, 0644)
}

func (repo *XDGPersistanceRepo) GetVisited() ([]*PersistanceRepoInfo, error) {
	err := repo.load()
	if err != nil {
		return nil, err
	}

	return repo.s.Visited, nil
}

func (repo *XDGPersistanceRepo) indexOf(name, provider string) int {
	return slices.IndexFunc(
		repo.s.Visited,
		func(v *PersistanceRepoInfo) bool {
			return v.Name == name && v.Provider == provider
		},
	)
}

// GetInfo returns the tracked entry for a repository, used to find
// the local working copy when a command names the repository
// explicitly.
func (repo *XDGPersistanceRepo) GetInfo(
	name string,
	provider string,
) (*PersistanceRepoInfo, error) {
	err := repo.load()
	if err != nil {
		return nil, err
	}

	index := repo.indexOf(name, provider)
	if index == -1 {
		return nil, ErrRepoInfoNotFound
	}

	return repo.s.Visited[index], nil
}

// AddVisited records a repository visit, keeping any stored filter.
func (repo *XDGPersistanceRepo) AddVisited(
	name string,
	provider string,
	path string,
) error {
	err := repo.load()
	if err != nil {
		return err
	}

	index := repo.indexOf(name, provider)
	if index != -1 {
		info := repo.s.Visited[index]
		info.LastVisited = time.Now()
		info.Path = path
	} else {
		repo.s.Visited = append(
			repo.s.Visited,
			&PersistanceRepoInfo{
				Name:        name,
				Provider:    provider,
				LastVisited: time.Now(),
				Path:        path,
			},
		)
	}

	return repo.save()
}

// SetFilter remembers the last pull request list filter used for a
// repository so the next session starts where the previous left off.
func (repo *XDGPersistanceRepo) SetFilter(
	name string,
	provider string,
	filter string,
) error {
	err := repo.load()
	if err != nil {
		return err
	}

	index := repo.indexOf(name, provider)
	if index != -1 {
		repo.s.Visited[index].Filter = filter
	} else {
		repo.s.Visited = append(
			repo.s.Visited,
			&PersistanceRepoInfo{
				Name:     name,
				Provider: provider,
				Filter:   filter,
			},
		)
	}

	return repo.save()
}

func (repo *XDGPersistanceRepo) GetFilter(
	name string,
	provider string,
) (string, error) {
	err := repo.load()
	if err != nil {
		return "", err
	}

	index := repo.indexOf(name, provider)
	if index == -1 {
		return "", nil
	}

	return repo.s.Visited[index].Filter, nil
}

var persistanceRepo PersistanceRepo = &XDGPersistanceRepo{
	s:  &state{},
	fs: fs.OS{},
}

func GetDefault() PersistanceRepo {
	return persistanceRepo
}
