package client

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revq/internal/errcodes"
)

func Test_ParseRepositoryProvider(t *testing.T) {
	t.Run("parses known names", func(t *testing.T) {
		for _, s := range []string{"bitbucket", "bitbucket.org"} {
			p, err := ParseRepositoryProvider(s)

			require.NoError(t, err)
			assert.Equal(t, RepositoryProviderEnum.BITBUCKET, p)
		}
	})

	t.Run("falls back to configured aliases", func(t *testing.T) {
		viper.Set("bitbucket.aliases", []string{"bb-mirror"})
		defer viper.Reset()

		p, err := ParseRepositoryProvider("bb-mirror")

		require.NoError(t, err)
		assert.Equal(t, RepositoryProviderEnum.BITBUCKET, p)
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		_, err := ParseRepositoryProvider("gitlab")

		assert.ErrorIs(t, err, ErrUnknownRepositoryProvider)
	})
}

func Test_RepositoryProvider_IsValid(t *testing.T) {
	assert.True(t, RepositoryProviderEnum.BITBUCKET.IsValid())
	assert.False(t, RepositoryProvider("sourceforge").IsValid())
}

func Test_ParseListFilter(t *testing.T) {
	t.Run("parses filter names", func(t *testing.T) {
		cases := map[string]ListFilter{
			"all":       ListFilter_ALL,
			"mine":      ListFilter_MINE,
			"reviewing": ListFilter_REVIEWING,
		}

		for s, want := range cases {
			f, err := ParseListFilter(s)

			require.NoError(t, err)
			assert.Equal(t, want, f)
		}
	})

	t.Run("empty string means mine", func(t *testing.T) {
		f, err := ParseListFilter("")

		require.NoError(t, err)
		assert.Equal(t, ListFilter_MINE, f)
	})

	t.Run("rejects unknown filters", func(t *testing.T) {
		_, err := ParseListFilter("closed")

		assert.ErrorIs(t, err, ErrUnknownListFilter)
	})
}

func Test_ListFilter_Title(t *testing.T) {
	assert.Equal(t, "All open pullrequests", ListFilter_ALL.Title())
	assert.Equal(t, "My open pullrequests", ListFilter_MINE.Title())
	assert.Equal(t, "Open pullrequests I'm reviewing", ListFilter_REVIEWING.Title())
}

func Test_NewRepositoryFromOptions(t *testing.T) {
	t.Run("splits workspace and slug", func(t *testing.T) {
		r, err := NewRepositoryFromOptions(&RepositoryOptions{
			Provider:           RepositoryProviderEnum.BITBUCKET,
			FullRepositoryName: "owner/repo",
		})

		require.NoError(t, err)
		assert.Equal(t, "owner", r.Workspace)
		assert.Equal(t, "repo", r.Slug)
		assert.Equal(t, "owner/repo", r.FullName())
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		for _, s := range []string{"owner", "owner/repo/extra", "/repo", "owner/", ""} {
			_, err := NewRepositoryFromOptions(&RepositoryOptions{
				FullRepositoryName: s,
			})

			assert.ErrorIs(t, err, errcodes.ErrRepositoryMustBeInFormOwnerRepo, s)
		}
	})
}

func Test_Repository_WebURL(t *testing.T) {
	r := &Repository{Workspace: "owner", Slug: "repo"}

	assert.Equal(t, "https://bitbucket.org/owner/repo", r.WebURL())
}
