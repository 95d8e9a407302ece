package bitbucket

import (
	"fmt"

	"github.com/tidwall/gjson"

	"revq/internal/pkg/client"
)

func parseUser(value gjson.Result) *client.User {
	return &client.User{
		UUID:          value.Get("uuid").String(),
		DisplayName:   value.Get("display_name").String(),
		Nickname:      value.Get("nickname").String(),
		AccountID:     value.Get("account_id").String(),
		AccountStatus: value.Get("account_status").String(),
	}
}

// parseUserList handles the internal endpoints that return a bare
// JSON array of users.
func parseUserList(parsed gjson.Result) []*client.User {
	users := []*client.User{}

	parsed.ForEach(func(_, value gjson.Result) bool {
		users = append(users, parseUser(value))
		return true
	})

	return users
}

// parsePullRequest maps one pull request payload onto the domain
// model. Reviewer and approval names come from the participants list
// and the display status is derived from the approvals.
func parsePullRequest(repo *client.Repository, value gjson.Result) *client.PullRequest {
	reviewers := []string{}
	approvals := []string{}

	value.Get("participants").ForEach(func(_, p gjson.Result) bool {
		name := p.Get("user.display_name").String()

		if p.Get("role").String() == "REVIEWER" {
			reviewers = append(reviewers, name)
		}

		if p.Get("approved").Bool() {
			approvals = append(approvals, name)
		}

		return true
	})

	created := ""
	if ts := value.Get("created_on"); ts.Exists() {
		created = client.FormatCreated(ts.Time())
	}

	id := int(value.Get("id").Int())

	return &client.PullRequest{
		ID:                id,
		Title:             value.Get("title").String(),
		Author:            value.Get("author.display_name").String(),
		Description:       value.Get("description").String(),
		State:             client.PullRequestState(value.Get("state").String()),
		Status:            client.DeriveStatus(approvals),
		Reviewers:         reviewers,
		Approvals:         approvals,
		CommentCount:      int(value.Get("comment_count").Int()),
		Source:            value.Get("source.branch.name").String(),
		Destination:       value.Get("destination.branch.name").String(),
		SourceCommit:      value.Get("source.commit.hash").String(),
		DestinationCommit: value.Get("destination.commit.hash").String(),
		Created:           created,
		URL:               pullRequestURL(repo, id),
	}
}

// pullRequestURL derives the web address instead of trusting response
// links, which the list call excludes to keep payloads small.
func pullRequestURL(repo *client.Repository, id int) string {
	return fmt.Sprintf("%s/pull-requests/%d", repo.WebURL(), id)
}

func parseDiffstatEntry(value gjson.Result) *client.DiffstatEntry {
	path := value.Get("new.path").String()
	if path == "" {
		path = value.Get("old.path").String()
	}

	contentType := value.Get("new.type").String()
	if contentType == "" {
		contentType = value.Get("old.type").String()
	}

	return &client.DiffstatEntry{
		Path:        path,
		Status:      value.Get("status").String(),
		ContentType: contentType,
	}
}

func parseMergeRestrictions(parsed gjson.Result) *client.MergeRestrictions {
	mr := &client.MergeRestrictions{
		CanMerge: parsed.Get("can_merge").Bool(),
	}

	parsed.Get("restrictions").ForEach(func(key, value gjson.Result) bool {
		mr.Restrictions = append(mr.Restrictions, &client.MergeRestriction{
			Name:  key.String(),
			Label: value.Get("label").String(),
			Pass:  value.Get("pass").Bool(),
		})

		return true
	})

	return mr
}
