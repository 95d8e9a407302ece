package client

// MockClient implements Client for tests. Return values are set per
// call kind, ErrorValue fails every call, and the *Calls slices record
// the options each invocation received.
type MockClient struct {
	ErrorValue error

	PullRequests    []*PullRequest
	PullRequest     *PullRequest
	DiffText        string
	DiffstatEntries []*DiffstatEntry
	Restrictions    *MergeRestrictions
	Description     *DefaultDescription
	Recommended     []*User
	Codeowners      []*User
	User            *User
	UserStatus      *UserStatus

	ListCalls    []*ListPullRequestsOptions
	ApproveCalls []*ApproveOptions
	CreateCalls  []*CreatePullRequestOptions
}

func (c *MockClient) ListPullRequests(o *ListPullRequestsOptions) ([]*PullRequest, error) {
	c.ListCalls = append(c.ListCalls, o)
	return c.PullRequests, c.ErrorValue
}

func (c *MockClient) GetPullRequest(o *GetPullRequestOptions) (*PullRequest, error) {
	return c.PullRequest, c.ErrorValue
}

func (c *MockClient) GetDiff(o *GetDiffOptions) (string, error) {
	return c.DiffText, c.ErrorValue
}

func (c *MockClient) GetDiffstat(o *GetDiffstatOptions) ([]*DiffstatEntry, error) {
	return c.DiffstatEntries, c.ErrorValue
}

func (c *MockClient) GetMergeRestrictions(o *GetMergeRestrictionsOptions) (*MergeRestrictions, error) {
	return c.Restrictions, c.ErrorValue
}

func (c *MockClient) ApprovePullRequest(o *ApproveOptions) error {
	c.ApproveCalls = append(c.ApproveCalls, o)
	return c.ErrorValue
}

func (c *MockClient) CreatePullRequest(o *CreatePullRequestOptions) (*PullRequest, error) {
	c.CreateCalls = append(c.CreateCalls, o)
	return c.PullRequest, c.ErrorValue
}

func (c *MockClient) GetDefaultDescription(o *GetDefaultDescriptionOptions) (*DefaultDescription, error) {
	return c.Description, c.ErrorValue
}

func (c *MockClient) GetRecommendedReviewers(o *GetRecommendedReviewersOptions) ([]*User, error) {
	return c.Recommended, c.ErrorValue
}

func (c *MockClient) GetCodeowners(o *GetCodeownersOptions) ([]*User, error) {
	return c.Codeowners, c.ErrorValue
}

func (c *MockClient) GetCurrentUser() (*User, error) {
	return c.User, c.ErrorValue
}

func (c *MockClient) GetCurrentUserStatus() (*UserStatus, error) {
	return c.UserStatus, c.ErrorValue
}
