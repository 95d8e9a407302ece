package alias

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"revq/internal/errcodes"
	"revq/internal/pkg/fs"
)

func TestRunSet(t *testing.T) {
	oldSaveGlobalConfig := saveGlobalConfig

	t.Run("stores the command under the alias section", func(t *testing.T) {
		var saved map[string]interface{}
		saveGlobalConfig = func(values map[string]interface{}, filesystem fs.Filesystem) error {
			saved = values
			return nil
		}

		err := runSet(nil, []string{"prs", "pr list --filter reviewing"})
		assert.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"alias.prs": "pr list --filter reviewing",
		}, saved)
	})

	t.Run("lower cases the name and squeezes whitespace", func(t *testing.T) {
		var saved map[string]interface{}
		saveGlobalConfig = func(values map[string]interface{}, filesystem fs.Filesystem) error {
			saved = values
			return nil
		}

		err := runSet(nil, []string{"PRs", "  pr   list  "})
		assert.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"alias.prs": "pr list",
		}, saved)
	})

	t.Run("rejects an empty command", func(t *testing.T) {
		saveGlobalConfig = func(values map[string]interface{}, filesystem fs.Filesystem) error {
			t.Fatal("must not save")
			return nil
		}

		err := runSet(nil, []string{"prs", "   "})
		assert.EqualError(t, err, errcodes.ErrMissingAliasCommand.Error())
	})

	saveGlobalConfig = oldSaveGlobalConfig
}

func TestRunRemove(t *testing.T) {
	oldSaveGlobalConfig := saveGlobalConfig

	t.Run("drops the alias and keeps the rest", func(t *testing.T) {
		viper.Set("alias", map[string]string{
			"prs":  "pr list --filter reviewing",
			"mine": "pr list --filter mine",
		})
		defer viper.Reset()

		var saved map[string]interface{}
		saveGlobalConfig = func(values map[string]interface{}, filesystem fs.Filesystem) error {
			saved = values
			return nil
		}

		err := runRemove(nil, []string{"prs"})
		assert.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"alias": map[string]string{"mine": "pr list --filter mine"},
		}, saved)
	})

	t.Run("fails for an unknown alias", func(t *testing.T) {
		defer viper.Reset()

		err := runRemove(nil, []string{"missing"})
		assert.EqualError(t, err, errcodes.ErrUnknownAlias.Error())
	})

	saveGlobalConfig = oldSaveGlobalConfig
}

func TestRenderTable(t *testing.T) {
	t.Run("lists aliases sorted by name", func(t *testing.T) {
		v := renderTable(map[string]string{
			"prs":  "pr list --filter reviewing",
			"mine": "pr list --filter mine",
		})

		assert.Contains(t, v, "ALIAS")
		assert.Contains(t, v, "COMMAND")
		assert.Contains(t, v, "pr list --filter reviewing")
		assert.Less(t, strings.Index(v, "mine"), strings.Index(v, "prs"))
	})
}
