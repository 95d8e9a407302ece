package configutils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"revq/internal/pkg/fs"
)

type mockConfigMerger struct {
	err error
}

func (m *mockConfigMerger) MergeConfig(in io.Reader) error {
	return m.err
}

type mockFlagSet struct {
	value     string
	boolValue bool
	err       error
}

func (m *mockFlagSet) GetString(f string) (string, error) {
	return m.value, m.err
}

func (m *mockFlagSet) GetBool(f string) (bool, error) {
	return m.boolValue, m.err
}

func Test_mergeConfig(t *testing.T) {
	t.Run("returns nil when merge succeeds", func(t *testing.T) {
		err := mergeConfig(nil, &mockConfigMerger{nil})
		assert.Equal(t, nil, err)
	})

	t.Run("returns error when merge fails", func(t *testing.T) {
		vErr := errors.New("mergeFailed")
		err := mergeConfig(nil, &mockConfigMerger{vErr})
		assert.EqualError(t, err, vErr.Error())
	})
}

func Test_fileExists(t *testing.T) {
	t.Run("returns nil if file exists", func(t *testing.T) {
		err := fileExists("", fs.MockFS{Info: fs.MockFileInfo{IsDirValue: false}})
		assert.Equal(t, nil, err)
	})

	t.Run("returns error if file does not exist", func(t *testing.T) {
		vErr := errors.New("file does not exist")
		err := fileExists("", fs.MockFS{Err: vErr})
		assert.EqualError(t, err, vErr.Error())
	})

	t.Run("returns error if file is a directory", func(t *testing.T) {
		err := fileExists("", fs.MockFS{Info: fs.MockFileInfo{IsDirValue: true}})
		assert.EqualError(t, err, ErrConfigFileIsDir.Error())
	})
}

func Test_loadFile(t *testing.T) {
	oldFileExists := fileExists

	t.Run("fails if file does not exist", func(t *testing.T) {
		vErr := errors.New("file err")
		fileExists = func(string, fs.Filesystem) error { return vErr }
		_, err := loadFile("", nil)
		assert.EqualError(t, err, vErr.Error())
	})

	t.Run("fails if file cannot be opened", func(t *testing.T) {
		vErr := errors.New("file err")
		fileExists = func(string, fs.Filesystem) error { return nil }
		_, err := loadFile("", fs.MockFS{Err: vErr})
		assert.EqualError(t, err, vErr.Error())
	})

	t.Run("succeeds if file exists and can be opened", func(t *testing.T) {
		fileExists = func(string, fs.Filesystem) error { return nil }
		_, err := loadFile("", fs.MockFS{})
		assert.Equal(t, nil, err)
	})

	fileExists = oldFileExists
}

func Test_loadConfig(t *testing.T) {
	oldLoadFile := loadFile
	oldMergeConfig := mergeConfig

	t.Run("succeeds when file is loaded and merged", func(t *testing.T) {
		loadFile = func(string, fs.Filesystem) (io.Reader, error) { return nil, nil }
		mergeConfig = func(io.Reader, configMerger) error { return nil }
		err := loadConfig("", viper.New())
		assert.Equal(t, nil, err)
	})

	t.Run("fails for missing files", func(t *testing.T) {
		vErr := errors.New("load err")
		loadFile = func(string, fs.Filesystem) (io.Reader, error) { return nil, vErr }
		err := loadConfig("", viper.New())
		assert.EqualError(t, err, vErr.Error())
	})

	t.Run("fails when merge fails", func(t *testing.T) {
		vErr := errors.New("merge err")
		loadFile = func(string, fs.Filesystem) (io.Reader, error) { return nil, nil }
		mergeConfig = func(io.Reader, configMerger) error { return vErr }
		err := loadConfig("", viper.New())
		assert.EqualError(t, err, vErr.Error())
	})

	loadFile = oldLoadFile
	mergeConfig = oldMergeConfig
}

func TestDefaultConfig(t *testing.T) {
	oldLoadConfig := loadConfig
	oldGetGlobalConfigDir := getGlobalConfigDir

	t.Run("fails when home cannot be determined", func(t *testing.T) {
		getGlobalConfigDir = func() (string, error) { return "", errors.New("") }
		_, err := DefaultConfig()
		assert.EqualError(t, err, ErrHomeDirNotFound.Error())
	})

	t.Run("stops at the first filetype that loads", func(t *testing.T) {
		calls := 0
		getGlobalConfigDir = func() (string, error) { return "/home/user/.config/revq", nil }
		loadConfig = func(string, *viper.Viper) error {
			calls++
			return nil
		}

		v, err := DefaultConfig()
		assert.NoError(t, err)
		assert.NotNil(t, v)
		assert.Equal(t, 1, calls)
	})

	t.Run("fails when no filetype loads", func(t *testing.T) {
		vErr := errors.New("load err")
		getGlobalConfigDir = func() (string, error) { return "/home/user/.config/revq", nil }
		loadConfig = func(string, *viper.Viper) error { return vErr }

		_, err := DefaultConfig()
		assert.ErrorContains(t, err, "could not load config")
	})

	loadConfig = oldLoadConfig
	getGlobalConfigDir = oldGetGlobalConfigDir
}

func TestLoadConfigForPath(t *testing.T) {
	oldGetGlobalConfigDir := getGlobalConfigDir
	getGlobalConfigDir = func() (string, error) { return "/nonexistent/revq", nil }
	defer func() { getGlobalConfigDir = oldGetGlobalConfigDir }()

	t.Run("starts empty when no global config exists", func(t *testing.T) {
		v, err := LoadConfigForPath(t.TempDir())
		assert.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("merges the local override file", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(
			filepath.Join(dir, LocalConfigFilename),
			[]byte("default:\n  repository: owner/repo\n"),
			0o644,
		)
		assert.NoError(t, err)

		v, err := LoadConfigForPath(dir)
		assert.NoError(t, err)
		assert.Equal(t, "owner/repo", v.GetString("default.repository"))
	})
}

func TestSaveGlobalConfig(t *testing.T) {
	oldLoadConfig := loadConfig
	oldGetGlobalConfigDir := getGlobalConfigDir
	oldWriteConfigFile := writeConfigFile

	t.Run("merges values over the existing config", func(t *testing.T) {
		getGlobalConfigDir = func() (string, error) { return "/home/user/.config/revq", nil }
		loadConfig = func(f string, v *viper.Viper) error {
			return v.MergeConfig(strings.NewReader("[default]\nrepository = \"owner/repo\"\n"))
		}

		var written *viper.Viper
		var path string
		writeConfigFile = func(v *viper.Viper, p string) error {
			written = v
			path = p
			return nil
		}

		err := SaveGlobalConfig(map[string]interface{}{
			"auth.username": "jdev",
		}, fs.MockFS{})

		assert.NoError(t, err)
		assert.Equal(t, "/home/user/.config/revq/config.toml", path)
		assert.Equal(t, "jdev", written.GetString("auth.username"))
		assert.Equal(t, "owner/repo", written.GetString("default.repository"))
	})

	t.Run("starts empty when no config exists", func(t *testing.T) {
		getGlobalConfigDir = func() (string, error) { return "/home/user/.config/revq", nil }
		loadConfig = func(f string, v *viper.Viper) error { return errors.New("missing") }

		var written *viper.Viper
		writeConfigFile = func(v *viper.Viper, p string) error {
			written = v
			return nil
		}

		err := SaveGlobalConfig(map[string]interface{}{
			"auth.username": "jdev",
		}, fs.MockFS{})

		assert.NoError(t, err)
		assert.Equal(t, "jdev", written.GetString("auth.username"))
	})

	loadConfig = oldLoadConfig
	getGlobalConfigDir = oldGetGlobalConfigDir
	writeConfigFile = oldWriteConfigFile
}

func TestRemoveGlobalConfigSection(t *testing.T) {
	oldLoadConfig := loadConfig
	oldGetGlobalConfigDir := getGlobalConfigDir
	oldWriteConfigFile := writeConfigFile

	t.Run("drops the section and keeps the rest", func(t *testing.T) {
		getGlobalConfigDir = func() (string, error) { return "/home/user/.config/revq", nil }
		loadConfig = func(f string, v *viper.Viper) error {
			return v.MergeConfig(strings.NewReader(
				"[auth]\nusername = \"jdev\"\n[default]\nrepository = \"owner/repo\"\n",
			))
		}

		var written *viper.Viper
		writeConfigFile = func(v *viper.Viper, p string) error {
			written = v
			return nil
		}

		err := RemoveGlobalConfigSection("auth", fs.MockFS{})

		assert.NoError(t, err)
		assert.Equal(t, "", written.GetString("auth.username"))
		assert.Equal(t, "owner/repo", written.GetString("default.repository"))
	})

	loadConfig = oldLoadConfig
	getGlobalConfigDir = oldGetGlobalConfigDir
	writeConfigFile = oldWriteConfigFile
}

func TestGetStringFlagOrDefault(t *testing.T) {
	t.Run("returns flag value when defined", func(t *testing.T) {
		v := GetStringFlagOrDefault(
			&mockFlagSet{value: "value", err: nil},
			"flag",
			"",
		)
		assert.Equal(t, "value", v)
	})

	t.Run("returns default value on error", func(t *testing.T) {
		v := GetStringFlagOrDefault(
			&mockFlagSet{value: "", err: errors.New("error")},
			"flag",
			"default",
		)
		assert.Equal(t, "default", v)
	})

	t.Run("returns default value on empty string", func(t *testing.T) {
		v := GetStringFlagOrDefault(
			&mockFlagSet{value: "", err: nil},
			"flag",
			"default",
		)
		assert.Equal(t, "default", v)
	})
}

func TestGetBoolFlagOrDefault(t *testing.T) {
	t.Run("returns flag value when defined", func(t *testing.T) {
		v := GetBoolFlagOrDefault(
			&mockFlagSet{boolValue: false, err: nil},
			"flag",
			true,
		)
		assert.Equal(t, false, v)
	})

	t.Run("returns default value on error", func(t *testing.T) {
		v := GetBoolFlagOrDefault(
			&mockFlagSet{boolValue: true, err: errors.New("error")},
			"flag",
			false,
		)
		assert.Equal(t, false, v)
	})
}
