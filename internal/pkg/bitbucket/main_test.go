package bitbucket

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revq/internal/errcodes"
	"revq/internal/pkg/client"
)

func testClient() *BitbucketCloudClient {
	return &BitbucketCloudClient{
		username: "user",
		password: "pass",
		uuid:     "{me}",
	}
}

func withTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)

	oldAPI, oldInternal := apiBaseURL, internalBaseURL
	apiBaseURL = server.URL
	internalBaseURL = server.URL

	t.Cleanup(func() {
		apiBaseURL = oldAPI
		internalBaseURL = oldInternal
		server.Close()
	})

	return server
}

func Test_ListPullRequests(t *testing.T) {
	t.Run("paginates and filters on the author", func(t *testing.T) {
		var queries []string

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "user", user)
			assert.Equal(t, "pass", pass)

			queries = append(queries, r.URL.Query().Get("q"))

			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `{"values": [{"id": 2, "title": "second"}]}`)
				return
			}

			assert.Equal(t, "25", r.URL.Query().Get("pagelen"))
			assert.Contains(t, r.URL.Query().Get("fields"), "+values.participants")

			fmt.Fprintf(w,
				`{"values": [{"id": 1, "title": "first"}], "next": %q}`,
				apiBaseURL+r.URL.Path+"?page=2",
			)
		}))

		prs, err := testClient().ListPullRequests(&client.ListPullRequestsOptions{
			Repository: testRepo(),
			Filter:     client.ListFilter_MINE,
		})

		require.NoError(t, err)
		require.Len(t, prs, 2)
		assert.Equal(t, 1, prs[0].ID)
		assert.Equal(t, 2, prs[1].ID)
		assert.Equal(t, `state="OPEN" AND author.uuid="{me}"`, queries[0])
	})

	t.Run("reviewing filter queries the reviewers", func(t *testing.T) {
		var query string

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			fmt.Fprint(w, `{"values": []}`)
		}))

		_, err := testClient().ListPullRequests(&client.ListPullRequestsOptions{
			Repository: testRepo(),
			Filter:     client.ListFilter_REVIEWING,
		})

		require.NoError(t, err)
		assert.Equal(t, `state="OPEN" AND reviewers.uuid="{me}"`, query)
	})

	t.Run("all filter only narrows the state", func(t *testing.T) {
		var query string

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			fmt.Fprint(w, `{"values": []}`)
		}))

		_, err := testClient().ListPullRequests(&client.ListPullRequestsOptions{
			Repository: testRepo(),
			Filter:     client.ListFilter_ALL,
		})

		require.NoError(t, err)
		assert.Equal(t, `state="OPEN"`, query)
	})
}

func Test_GetDiff(t *testing.T) {
	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/owner/repo/pullrequests/42/diff", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))

		fmt.Fprint(w, "diff --git a/x b/x\n+1\n")
	}))

	diff, err := testClient().GetDiff(&client.GetDiffOptions{
		Repository: testRepo(),
		ID:         42,
	})

	require.NoError(t, err)
	assert.Equal(t, "diff --git a/x b/x\n+1\n", diff)
}

func Test_checkError_allowlist(t *testing.T) {
	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Your IP have not been whitelisted for access")
	}))

	_, err := testClient().GetPullRequest(&client.GetPullRequestOptions{
		Repository: testRepo(),
		ID:         1,
	})

	assert.ErrorIs(t, err, errcodes.ErrIPAllowlistBlocked)
}

func Test_ApprovePullRequest(t *testing.T) {
	var path, method string

	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		method = r.Method
		fmt.Fprint(w, `{"approved": true}`)
	}))

	err := testClient().ApprovePullRequest(&client.ApproveOptions{
		Repository: testRepo(),
		ID:         9,
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/repositories/owner/repo/pullrequests/9/approve", path)
}

func Test_CreatePullRequest(t *testing.T) {
	t.Run("rejects incomplete options", func(t *testing.T) {
		c := testClient()

		_, err := c.CreatePullRequest(&client.CreatePullRequestOptions{
			Repository:  testRepo(),
			Destination: "master",
			Title:       "x",
		})
		assert.ErrorIs(t, err, errcodes.ErrMissingSource)

		_, err = c.CreatePullRequest(&client.CreatePullRequestOptions{
			Repository: testRepo(),
			Source:     "feature",
			Title:      "x",
		})
		assert.ErrorIs(t, err, errcodes.ErrMissingDestination)

		_, err = c.CreatePullRequest(&client.CreatePullRequestOptions{
			Repository:  testRepo(),
			Source:      "feature",
			Destination: "master",
		})
		assert.ErrorIs(t, err, errcodes.ErrMissingTitle)
	})

	t.Run("drops the author from the reviewers", func(t *testing.T) {
		var body []byte

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			fmt.Fprint(w, `{"id": 5, "title": "done"}`)
		}))

		pr, err := testClient().CreatePullRequest(&client.CreatePullRequestOptions{
			Repository:  testRepo(),
			Title:       "done",
			Source:      "feature",
			Destination: "master",
			Reviewers: []*client.User{
				{UUID: "{me}"},
				{UUID: "{other}"},
				{DisplayName: "no uuid"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 5, pr.ID)
		assert.Contains(t, string(body), `{"uuid":"{other}"}`)
		assert.NotContains(t, string(body), `{"uuid":"{me}"}`)
	})

	t.Run("marks drafts in the title", func(t *testing.T) {
		var body []byte

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			fmt.Fprint(w, `{"id": 6}`)
		}))

		_, err := testClient().CreatePullRequest(&client.CreatePullRequestOptions{
			Repository:  testRepo(),
			Title:       "wip",
			Source:      "feature",
			Destination: "master",
			Draft:       true,
		})

		require.NoError(t, err)
		assert.Contains(t, string(body), `"title":"[DRAFT] wip"`)
	})
}

func Test_GetMergeRestrictions(t *testing.T) {
	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/owner/repo/pullrequests/3/merge-restrictions", r.URL.Path)

		fmt.Fprint(w, `{
			"can_merge": true,
			"restrictions": {"open_tasks": {"pass": true, "label": "Resolved tasks"}}
		}`)
	}))

	mr, err := testClient().GetMergeRestrictions(&client.GetMergeRestrictionsOptions{
		Repository: testRepo(),
		ID:         3,
	})

	require.NoError(t, err)
	assert.True(t, mr.CanMerge)
	require.Len(t, mr.Restrictions, 1)
	assert.Equal(t, "open_tasks", mr.Restrictions[0].Name)
}

func Test_GetDefaultDescription(t *testing.T) {
	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/pullrequests/default-messages/")
		assert.Equal(t, "true", r.URL.Query().Get("raw"))

		fmt.Fprint(w, `{"title": "Fix it", "description": "* commit one"}`)
	}))

	dd, err := testClient().GetDefaultDescription(&client.GetDefaultDescriptionOptions{
		Repository:  testRepo(),
		Source:      "feature",
		Destination: "master",
	})

	require.NoError(t, err)
	assert.Equal(t, "Fix it", dd.Title)
	assert.Equal(t, "* commit one", dd.Description)
}

func Test_GetCurrentUserStatus(t *testing.T) {
	withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Oauth-Scopes", "account, pullrequest:write")
		fmt.Fprint(w, `{
			"uuid": "{me}",
			"display_name": "Jane Dev",
			"nickname": "jdev",
			"account_status": "active",
			"has_2fa_enabled": true
		}`)
	}))

	c := &BitbucketCloudClient{username: "user", password: "abcd1234efgh"}

	us, err := c.GetCurrentUserStatus()

	require.NoError(t, err)
	assert.Equal(t, "Jane Dev", us.User.DisplayName)
	assert.True(t, us.Has2FAEnabled)
	assert.Equal(t, []string{"account", "pullrequest:write"}, us.Scopes)
	assert.Equal(t, "abcd********", us.AppPasswordPreview)
}

func Test_currentUserUUID(t *testing.T) {
	t.Run("asks the service once and caches", func(t *testing.T) {
		calls := 0

		withTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, `{"uuid": "{fetched}"}`)
		}))

		c := &BitbucketCloudClient{username: "user", password: "pass"}

		for i := 0; i < 2; i++ {
			uuid, err := c.currentUserUUID()

			require.NoError(t, err)
			assert.Equal(t, "{fetched}", uuid)
		}

		assert.Equal(t, 1, calls)
	})
}
