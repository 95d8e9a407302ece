package configutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"revq/internal/pkg/fs"
)

// LocalConfigFilename is the per-repository override file, looked up
// at the repository root.
const LocalConfigFilename = ".revqcfg"

type FlagSet interface {
	GetString(string) (string, error)
	GetBool(string) (bool, error)
}

type configMerger interface {
	MergeConfig(io.Reader) error
}

var (
	ErrHomeDirNotFound = errors.New("unable to determine the home directory")
	ErrConfigFileIsDir = errors.New("configuration file is a directory")
)

var mergeConfig = func(in io.Reader, cm configMerger) error {
	err := cm.MergeConfig(in)
	if err != nil {
		return err
	}

	return nil
}

var fileExists = func(filename string, fs fs.Filesystem) error {
	info, err := fs.Stat(filename)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return ErrConfigFileIsDir
	}

	return nil
}

var loadFile = func(filename string, fs fs.Filesystem) (io.Reader, error) {
	err := fileExists(filename, fs)
	if err != nil {
		return nil, err
	}

	f, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}

	return f, nil
}

var loadConfig = func(filename string, v *viper.Viper) error {
	f, err := loadFile(filename, fs.OS{})
	if err != nil {
		return err
	}

	return mergeConfig(f, v)
}

var getGlobalConfigDir = func() (string, error) {
	return homedir.Expand("~/.config/revq")
}

func MergeLocalConfig(v *viper.Viper, path string) error {
	f := filepath.Join(path, LocalConfigFilename)
	if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	// Try for every supported file type
	filetypes := []string{"yaml", "json", "toml"}
	var err error = nil
	for _, ft := range filetypes {
		v.SetConfigType(ft)
		err := loadConfig(f, v)
		if err == nil {
			return nil
		}
	}

	return err
}

// LoadConfigForPath loads the global config and merges the local
// override found at path on top of it. A missing global config is not
// an error, commands like auth login have to run before one exists.
func LoadConfigForPath(path string) (*viper.Viper, error) {
	v, err := DefaultConfig()
	if err != nil {
		log.Debug().Err(err).Msg("no global config loaded")
		v = viper.New()
	}

	err = MergeLocalConfig(v, path)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func DefaultConfig() (*viper.Viper, error) {
	cfgDir, err := getGlobalConfigDir()
	if err != nil {
		return nil, ErrHomeDirNotFound
	}

	v := viper.New()
	filetypes := []string{"yaml", "json", "toml"}
	for _, ft := range filetypes {
		f := filepath.Join(cfgDir, fmt.Sprintf("config.%s", ft))
		v.SetConfigType(ft)
		err = loadConfig(f, v)
		if err == nil {
			return v, nil
		}
		log.Debug().
			Msgf("config loading failed for type %s, skipping to next filetype", ft)
	}

	return nil, errors.Wrap(err, "could not load config")
}

var writeConfigFile = func(v *viper.Viper, path string) error {
	return v.WriteConfigAs(path)
}

// globalSettings reads the current global config into a fresh viper
// instance, or an empty one on first run.
func globalSettings() (*viper.Viper, string, error) {
	cfgDir, err := getGlobalConfigDir()
	if err != nil {
		return nil, "", ErrHomeDirNotFound
	}

	path := filepath.Join(cfgDir, "config.toml")

	v := viper.New()
	v.SetConfigType("toml")
	if err := loadConfig(path, v); err != nil {
		log.Debug().Msg("no existing global config, starting empty")
	}

	return v, path, nil
}

// SaveGlobalConfig merges the values into the global config file,
// creating the config directory on first use. Local overrides are
// never written back.
func SaveGlobalConfig(values map[string]interface{}, filesystem fs.Filesystem) error {
	v, path, err := globalSettings()
	if err != nil {
		return err
	}

	for key, value := range values {
		v.Set(key, value)
	}

	if err := filesystem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return writeConfigFile(v, path)
}

// RemoveGlobalConfigSection drops a top-level section, used when the
// stored credentials are discarded.
func RemoveGlobalConfigSection(section string, filesystem fs.Filesystem) error {
	v, path, err := globalSettings()
	if err != nil {
		return err
	}

	settings := v.AllSettings()
	delete(settings, section)

	out := viper.New()
	out.SetConfigType("toml")
	if err := out.MergeConfigMap(settings); err != nil {
		return err
	}

	if err := filesystem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return writeConfigFile(out, path)
}

func GetBoolFlagOrDefault(fs FlagSet, flag string, d bool) bool {
	v, err := fs.GetBool(flag)
	if err != nil {
		return d
	}

	return v
}

func GetStringFlagOrDefault(fs FlagSet, flag, d string) string {
	s, err := fs.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}
