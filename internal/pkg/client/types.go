package client

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

type PullRequestState string

const (
	PullRequestState_OPEN       PullRequestState = "OPEN"
	PullRequestState_MERGED     PullRequestState = "MERGED"
	PullRequestState_DECLINED   PullRequestState = "DECLINED"
	PullRequestState_SUPERSEDED PullRequestState = "SUPERSEDED"
)

// PullRequestStatus is the reviewer-facing status derived from the
// participants list, not the lifecycle state the service stores.
type PullRequestStatus string

const (
	PullRequestStatus_OPEN     PullRequestStatus = "Open"
	PullRequestStatus_APPROVED PullRequestStatus = "Approved"
)

type PullRequest struct {
	ID                int
	Title             string
	Author            string
	Description       string
	State             PullRequestState
	Status            PullRequestStatus
	Reviewers         []string
	Approvals         []string
	CommentCount      int
	Source            string
	Destination       string
	SourceCommit      string
	DestinationCommit string
	Created           string
	URL               string
}

func (pr *PullRequest) IsApproved() bool {
	return pr.Status == PullRequestStatus_APPROVED
}

// DeriveStatus maps the approving participant names to the display
// status: any approval flips the pull request to Approved.
func DeriveStatus(approvals []string) PullRequestStatus {
	if len(approvals) > 0 {
		return PullRequestStatus_APPROVED
	}

	return PullRequestStatus_OPEN
}

// FormatCreated renders a creation timestamp the way every view prints
// it, normalized to UTC.
func FormatCreated(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

type User struct {
	UUID          string
	DisplayName   string
	Nickname      string
	AccountID     string
	AccountStatus string
}

type UserStatus struct {
	User               *User
	Has2FAEnabled      bool
	AppPasswordPreview string
	Scopes             []string
}

// StatusLines formats the account summary printed by `revq auth status`.
func (us *UserStatus) StatusLines() []string {
	lines := []string{
		"bitbucket.org",
		fmt.Sprintf("- Logged in as %s (%s)", us.User.DisplayName, us.User.Nickname),
		fmt.Sprintf("- Account status: %s", us.User.AccountStatus),
		fmt.Sprintf("- Two factor authentication: %v", us.Has2FAEnabled),
	}

	if us.AppPasswordPreview != "" {
		lines = append(lines, fmt.Sprintf("- App password: %s", us.AppPasswordPreview))
	}

	if len(us.Scopes) > 0 {
		lines = append(lines, fmt.Sprintf("- Scopes: %s", strings.Join(us.Scopes, ", ")))
	}

	return lines
}

// PreviewSecret keeps the first four characters and masks the rest, so
// a stored app password can be recognized without being disclosed.
func PreviewSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}

	return s[:4] + strings.Repeat("*", len(s)-4)
}

type DiffstatEntry struct {
	Path        string
	Status      string
	ContentType string
}

type MergeRestriction struct {
	Name  string
	Label string
	Pass  bool
}

type MergeRestrictions struct {
	CanMerge     bool
	Restrictions []*MergeRestriction
}

type DefaultDescription struct {
	Title       string
	Description string
}

// DedupReviewers merges codeowners with recommended reviewers, keeping
// order and dropping recommendations already present as codeowners.
// Identity is the account UUID; entries without one never match each
// other and are all kept.
func DedupReviewers(owners, recommended []*User) []*User {
	merged := make([]*User, 0, len(owners)+len(recommended))
	merged = append(merged, owners...)

	for _, r := range recommended {
		r := r

		if r.UUID != "" && slices.ContainsFunc(owners, func(o *User) bool {
			return o.UUID == r.UUID
		}) {
			continue
		}

		merged = append(merged, r)
	}

	return merged
}
