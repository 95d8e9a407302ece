package paramutils

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"revq/internal/errcodes"
	"revq/internal/gitutils"
	"revq/internal/persistance"
	"revq/internal/pkg/client"
	"revq/internal/pkg/fs"
)

type RepositoryParams struct {
	Provider client.RepositoryProvider
	Name     string
}

type FlagRepo interface {
	GetStringOrDefault(flag, d string) string
	GetBoolOrDefault(flag string, d bool) bool
}

func NewFlagRepo(flags *pflag.FlagSet) FlagRepo {
	return &PFlagSetWrapper{Flags: flags}
}

type PFlagSetWrapper struct {
	Flags *pflag.FlagSet
}

func (fs *PFlagSetWrapper) GetStringOrDefault(flag, d string) string {
	s, err := fs.Flags.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetBoolOrDefault(flag string, d bool) bool {
	s, err := fs.Flags.GetBool(flag)
	if err != nil {
		return d
	}

	return s
}

type paramsFiller interface {
	Fill(params *RepositoryParams)
}

type localRepositoryParamsFiller struct{}

func (pf *localRepositoryParamsFiller) Fill(params *RepositoryParams) {
	defaultRepo, err := gitutils.GetRemoteInfo()
	if err == nil {
		params.Name = defaultRepo.FullName()
		params.Provider = defaultRepo.Provider
	}
}

type viperConfigParamsFiller struct{}

func (pf *viperConfigParamsFiller) Fill(params *RepositoryParams) {
	if dp := viper.GetString("default.provider"); dp != "" {
		provider, err := client.ParseRepositoryProvider(dp)
		if err == nil {
			params.Provider = provider
		}
	}

	if dr := viper.GetString("default.repository"); dr != "" {
		params.Name = dr
	}
}

// FillDefaultRepositoryParams resolves the repository from the
// environment, letting the configured defaults override the git
// remote.
func FillDefaultRepositoryParams(params *RepositoryParams) {
	paramsFillers := []paramsFiller{
		&localRepositoryParamsFiller{},
		&viperConfigParamsFiller{},
	}

	for _, pf := range paramsFillers {
		pf.Fill(params)
	}
}

func FillFlagRepositoryParams(flags FlagRepo, params *RepositoryParams) {
	var (
		repo     = flags.GetStringOrDefault("repository", params.Name)
		provider = flags.GetStringOrDefault("provider", string(params.Provider))
	)

	params.Name = repo
	params.Provider = client.RepositoryProvider(provider)
}

func ValidateFlagRepositoryParams(params *RepositoryParams) error {
	if params.Name != "" && params.Provider != "" {
		v := strings.Split(params.Name, "/")
		if len(v) != 2 || v[0] == "" || v[1] == "" {
			return errcodes.ErrRepositoryMustBeInFormOwnerRepo
		}

		if !params.Provider.IsValid() {
			return errcodes.ErrRepositoryProviderUnknown
		}
	}

	return nil
}

// ValidateRepositoryParams requires a fully resolved repository, used
// by the commands that cannot work without one.
func ValidateRepositoryParams(params *RepositoryParams) error {
	if params.Name == "" {
		return errcodes.ErrMissingRepository
	}

	if params.Provider == "" {
		return errcodes.ErrMissingProvider
	}

	return ValidateFlagRepositoryParams(params)
}

// GetRepoParams resolves the repository for a command: environment
// defaults first, explicit flags last.
func GetRepoParams(flagSet *pflag.FlagSet) (*RepositoryParams, error) {
	params := &RepositoryParams{}
	FillDefaultRepositoryParams(params)
	FillFlagRepositoryParams(NewFlagRepo(flagSet), params)

	err := ValidateRepositoryParams(params)
	if err != nil {
		return nil, err
	}

	return params, nil
}

// GetRepoPath resolves the local working copy backing the command,
// either the tracked path of an explicitly named repository or the
// repository root above the working directory.
func GetRepoPath(flagSet *pflag.FlagSet) (string, error) {
	flags := NewFlagRepo(flagSet)
	name := flags.GetStringOrDefault("repository", "")
	provider := flags.GetStringOrDefault("provider", "")
	isExplicitRepo := name != "" && provider != ""
	path := ""

	if isExplicitRepo {
		info, err := persistance.GetDefault().GetInfo(name, provider)
		if err != nil {
			return "", err
		}
		path = info.Path
	} else {
		wd, err := fs.OS{}.Getwd()
		if err != nil {
			return "", err
		}

		path, err = gitutils.GetRepoRootDir(wd)
		if err != nil {
			return "", err
		}
	}

	return path, nil
}

// ParseIDArg reads the optional pull request id argument. A zero id
// means none was given.
func ParseIDArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errcodes.ErrInvalidPullRequestID
	}

	return id, nil
}
