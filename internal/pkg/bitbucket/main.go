package bitbucket

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"revq/internal/errcodes"
	"revq/internal/pkg/client"
)

var (
	apiBaseURL      = "https://api.bitbucket.org/2.0"
	internalBaseURL = "https://api.bitbucket.org/internal"
)

// listFields trims the list payload down to what the views render and
// pulls in the participants the status derivation needs.
const listFields = "+values.participants,+values.description,-values.summary," +
	"-values.links,+values.source,-values.participants.links"

type BitbucketCloudClient struct {
	username string
	password string

	mu   sync.Mutex
	uuid string
}

type ClientOptions struct {
	Username string
	Password string
	UUID     string
}

func New(o *ClientOptions) client.Client {
	return &BitbucketCloudClient{
		username: o.Username,
		password: o.Password,
		uuid:     o.UUID,
	}
}

// DefaultClient builds a client from the stored credentials.
func DefaultClient() (client.Client, error) {
	username := viper.GetString("auth.username")
	password := viper.GetString("auth.app_password")
	if username == "" || password == "" {
		return nil, errcodes.ErrMissingCredentials
	}

	return New(&ClientOptions{
		Username: username,
		Password: password,
		UUID:     viper.GetString("auth.uuid"),
	}), nil
}

// checkError maps an error response to a Go error. An IP allowlist
// rejection comes back as a 403 whose body mentions the whitelist, so
// callers can errors.Is against the sentinel.
func checkError(r *resty.Response) error {
	if !r.IsError() {
		return nil
	}

	body := string(r.Body())
	if r.StatusCode() == http.StatusForbidden &&
		strings.Contains(strings.ToLower(body), "whitelist") {
		log.WithField("status", r.StatusCode()).
			Debug("request blocked by IP allowlist")

		return errcodes.ErrIPAllowlistBlocked
	}

	return errors.New(body)
}

func (c *BitbucketCloudClient) get(url string) (*resty.Response, error) {
	log.WithField("url", url).Debug("bitbucket GET")

	r, err := resty.New().R().
		SetBasicAuth(c.username, c.password).
		SetError(bbError{}).
		Get(url)
	if err != nil {
		return nil, err
	}
	if err := checkError(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (c *BitbucketCloudClient) post(url string, body interface{}) (*resty.Response, error) {
	log.WithField("url", url).Debug("bitbucket POST")

	req := resty.New().R().
		SetBasicAuth(c.username, c.password).
		SetError(bbError{})

	if body != nil {
		req.SetHeader("content-type", "application/json").SetBody(body)
	}

	r, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	if err := checkError(r); err != nil {
		return nil, err
	}

	return r, nil
}

// currentUserUUID resolves the authenticated user's UUID, asking the
// service once and caching the answer for the filter queries.
func (c *BitbucketCloudClient) currentUserUUID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uuid != "" {
		return c.uuid, nil
	}

	u, err := c.GetCurrentUser()
	if err != nil {
		return "", err
	}

	c.uuid = u.UUID

	return c.uuid, nil
}

func (c *BitbucketCloudClient) ListPullRequests(o *client.ListPullRequestsOptions) ([]*client.PullRequest, error) {
	q := `state="OPEN"`

	switch o.Filter {
	case client.ListFilter_MINE:
		uuid, err := c.currentUserUUID()
		if err != nil {
			return nil, err
		}

		q = fmt.Sprintf(`%s AND author.uuid="%s"`, q, uuid)
	case client.ListFilter_REVIEWING:
		uuid, err := c.currentUserUUID()
		if err != nil {
			return nil, err
		}

		q = fmt.Sprintf(`%s AND reviewers.uuid="%s"`, q, uuid)
	}

	it := newBitbucketIterator(&newBitbucketIteratorOptions[*client.PullRequest]{
		Client: c,
		RequestURL: fmt.Sprintf(
			"%s/repositories/%s/pullrequests",
			apiBaseURL,
			o.Repository.FullName(),
		),
		Query: map[string]string{
			"q":      q,
			"fields": listFields,
		},
		Parse: func(key, value gjson.Result) (*client.PullRequest, error) {
			return parsePullRequest(o.Repository, value), nil
		},
	})

	return it.GetAll()
}

func (c *BitbucketCloudClient) GetPullRequest(o *client.GetPullRequestOptions) (*client.PullRequest, error) {
	r, err := c.get(fmt.Sprintf(
		"%s/repositories/%s/pullrequests/%d",
		apiBaseURL,
		o.Repository.FullName(),
		o.ID,
	))
	if err != nil {
		return nil, err
	}

	return parsePullRequest(o.Repository, gjson.ParseBytes(r.Body())), nil
}

// GetDiff returns the raw unified diff of a pull request.
func (c *BitbucketCloudClient) GetDiff(o *client.GetDiffOptions) (string, error) {
	url := fmt.Sprintf(
		"%s/repositories/%s/pullrequests/%d/diff",
		apiBaseURL,
		o.Repository.FullName(),
		o.ID,
	)

	log.WithField("url", url).Debug("bitbucket GET")

	r, err := resty.New().R().
		SetBasicAuth(c.username, c.password).
		SetHeader("Accept", "text/plain").
		SetError(bbError{}).
		Get(url)
	if err != nil {
		return "", err
	}
	if err := checkError(r); err != nil {
		return "", err
	}

	return string(r.Body()), nil
}

func (c *BitbucketCloudClient) GetDiffstat(o *client.GetDiffstatOptions) ([]*client.DiffstatEntry, error) {
	it := newBitbucketIterator(&newBitbucketIteratorOptions[*client.DiffstatEntry]{
		Client: c,
		RequestURL: fmt.Sprintf(
			"%s/repositories/%s/pullrequests/%d/diffstat",
			apiBaseURL,
			o.Repository.FullName(),
			o.ID,
		),
		Parse: func(key, value gjson.Result) (*client.DiffstatEntry, error) {
			return parseDiffstatEntry(value), nil
		},
	})

	return it.GetAll()
}

func (c *BitbucketCloudClient) GetMergeRestrictions(o *client.GetMergeRestrictionsOptions) (*client.MergeRestrictions, error) {
	r, err := c.get(fmt.Sprintf(
		"%s/repositories/%s/pullrequests/%d/merge-restrictions",
		internalBaseURL,
		o.Repository.FullName(),
		o.ID,
	))
	if err != nil {
		return nil, err
	}

	return parseMergeRestrictions(gjson.ParseBytes(r.Body())), nil
}

func (c *BitbucketCloudClient) ApprovePullRequest(o *client.ApproveOptions) error {
	_, err := c.post(fmt.Sprintf(
		"%s/repositories/%s/pullrequests/%d/approve",
		apiBaseURL,
		o.Repository.FullName(),
		o.ID,
	), nil)

	return err
}

func verifyCreatePullRequestOptions(o *client.CreatePullRequestOptions) error {
	if o.Source == "" {
		return errcodes.ErrMissingSource
	}

	if o.Destination == "" {
		return errcodes.ErrMissingDestination
	}

	if o.Title == "" {
		return errcodes.ErrMissingTitle
	}

	return nil
}

func (c *BitbucketCloudClient) CreatePullRequest(o *client.CreatePullRequestOptions) (*client.PullRequest, error) {
	err := verifyCreatePullRequestOptions(o)
	if err != nil {
		return nil, err
	}

	// The author cannot review their own pull request, the service
	// rejects the whole create call otherwise.
	uuid, err := c.currentUserUUID()
	if err != nil {
		return nil, err
	}

	reviewers := make([]bbPROptionsReviewer, 0, len(o.Reviewers))
	for _, v := range o.Reviewers {
		if v.UUID != "" && v.UUID != uuid {
			reviewers = append(reviewers, bbPROptionsReviewer{UUID: v.UUID})
		}
	}

	title := o.Title
	if o.Draft {
		title = fmt.Sprintf("[DRAFT] %s", title)
	}

	r, err := c.post(
		fmt.Sprintf(
			"%s/repositories/%s/pullrequests",
			apiBaseURL,
			o.Repository.FullName(),
		),
		bbPROptions{
			Title:             title,
			Description:       o.Description,
			CloseSourceBranch: o.CloseSourceBranch,
			Reviewers:         reviewers,
			Source: bbPRSourceOptions{
				Branch: bbPRSourceBranchOptions{Name: o.Source},
			},
			Destination: bbPRSourceOptions{
				Branch: bbPRSourceBranchOptions{Name: o.Destination},
			},
		},
	)
	if err != nil {
		return nil, err
	}

	return parsePullRequest(o.Repository, gjson.ParseBytes(r.Body())), nil
}

func (c *BitbucketCloudClient) GetDefaultDescription(o *client.GetDefaultDescriptionOptions) (*client.DefaultDescription, error) {
	r, err := c.get(fmt.Sprintf(
		"%s/repositories/%s/pullrequests/default-messages/%s%%0D%s?raw=true",
		internalBaseURL,
		o.Repository.FullName(),
		o.Source,
		o.Destination,
	))
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(r.Body())

	return &client.DefaultDescription{
		Title:       parsed.Get("title").String(),
		Description: parsed.Get("description").String(),
	}, nil
}

func (c *BitbucketCloudClient) GetRecommendedReviewers(o *client.GetRecommendedReviewersOptions) ([]*client.User, error) {
	r, err := c.get(fmt.Sprintf(
		"%s/repositories/%s/recommended-reviewers",
		internalBaseURL,
		o.Repository.FullName(),
	))
	if err != nil {
		return nil, err
	}

	return parseUserList(gjson.ParseBytes(r.Body())), nil
}

func (c *BitbucketCloudClient) GetCodeowners(o *client.GetCodeownersOptions) ([]*client.User, error) {
	r, err := c.get(fmt.Sprintf(
		"%s/repositories/%s/codeowners/%s..%s",
		internalBaseURL,
		o.Repository.FullName(),
		o.Source,
		o.Destination,
	))
	if err != nil {
		return nil, err
	}

	return parseUserList(gjson.ParseBytes(r.Body())), nil
}

func (c *BitbucketCloudClient) GetCurrentUser() (*client.User, error) {
	r, err := c.get(fmt.Sprintf("%s/user", apiBaseURL))
	if err != nil {
		return nil, err
	}

	return parseUser(gjson.ParseBytes(r.Body())), nil
}

// GetCurrentUserStatus reports the account summary behind the
// credentials, including the granted app password scopes which the
// service returns in a response header.
func (c *BitbucketCloudClient) GetCurrentUserStatus() (*client.UserStatus, error) {
	r, err := c.get(fmt.Sprintf("%s/user", apiBaseURL))
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(r.Body())

	var scopes []string
	if h := r.Header().Get("X-Oauth-Scopes"); h != "" {
		for _, s := range strings.Split(h, ",") {
			scopes = append(scopes, strings.TrimSpace(s))
		}
	}

	return &client.UserStatus{
		User:               parseUser(parsed),
		Has2FAEnabled:      parsed.Get("has_2fa_enabled").Bool(),
		AppPasswordPreview: client.PreviewSecret(c.password),
		Scopes:             scopes,
	}, nil
}
