package tracker

import (
	"context"
	"sync"
)

// ClientStub is a programmable in-memory Client for tests. It records call
// counts so tests can assert which remote calls happened.
type ClientStub struct {
	mu sync.RWMutex

	identity  Identity
	rates     []UserRate
	projects  []Project
	overview  []DayOverview
	confirmed Confirmation

	currentUserErr error
	userRatesErr   error
	projectsErr    error
	overviewErr    error
	submitErr      error

	CurrentUserCalls int
	UserRatesCalls   int
	ProjectsCalls    int
	OverviewCalls    int
	SubmitCalls      int

	LastToken   string
	LastPayload SubmissionPayload
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		confirmed: Confirmation{Message: "ok"},
	}
}

func (c *ClientStub) SetIdentity(identity Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

func (c *ClientStub) SetRates(rates []UserRate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates = rates
}

func (c *ClientStub) SetProjects(projects []Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = projects
}

func (c *ClientStub) SetOverview(overview []DayOverview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overview = overview
}

func (c *ClientStub) SetConfirmation(confirmation Confirmation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = confirmation
}

func (c *ClientStub) FailCurrentUser(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUserErr = err
}

func (c *ClientStub) FailUserRates(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userRatesErr = err
}

func (c *ClientStub) FailProjects(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectsErr = err
}

func (c *ClientStub) FailOverview(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overviewErr = err
}

func (c *ClientStub) FailSubmit(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitErr = err
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c = ClientStub{confirmed: Confirmation{Message: "ok"}}
}

func (c *ClientStub) CurrentUser(ctx context.Context, token string) (Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentUserCalls++
	c.LastToken = token
	if c.currentUserErr != nil {
		return Identity{}, c.currentUserErr
	}
	return c.identity, nil
}

func (c *ClientStub) UserRates(ctx context.Context, token string, userId int) ([]UserRate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UserRatesCalls++
	c.LastToken = token
	if c.userRatesErr != nil {
		return nil, c.userRatesErr
	}
	result := make([]UserRate, len(c.rates))
	copy(result, c.rates)
	return result, nil
}

func (c *ClientStub) Projects(ctx context.Context, token string, userId int, date string) ([]Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ProjectsCalls++
	c.LastToken = token
	if c.projectsErr != nil {
		return nil, c.projectsErr
	}
	result := make([]Project, len(c.projects))
	copy(result, c.projects)
	return result, nil
}

func (c *ClientStub) TimesheetOverview(ctx context.Context, token string, userId int, from, to string) ([]DayOverview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.OverviewCalls++
	c.LastToken = token
	if c.overviewErr != nil {
		return nil, c.overviewErr
	}
	result := make([]DayOverview, len(c.overview))
	copy(result, c.overview)
	return result, nil
}

func (c *ClientStub) SubmitWorklogs(ctx context.Context, token string, payload SubmissionPayload) (Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SubmitCalls++
	c.LastToken = token
	c.LastPayload = payload
	if c.submitErr != nil {
		return Confirmation{}, c.submitErr
	}
	return c.confirmed, nil
}
