package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/renderer"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/dmitrijs2005/vcdash/internal/logging"
)

// stubInputs answers every text and password prompt in order.
func stubInputs(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	origST, origGP := getSimpleText, getPassword
	next := func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}
	getSimpleText, getPassword = next, next
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
	return &prompts
}

type fakeAuth struct {
	loginEmail, loginPass string
	loginRes              services.Result

	signupReq   *models.SignupRequest
	signupRes   services.Result
	enroll      bool
	enrollClear bool

	logoutCalled bool

	qr     services.QRResult
	backup services.BackupCodeResult

	forgotReq   models.ForgotPasswordRequest
	forgotToken string
	forgotErr   error

	resetToken string
	resetPass  string
	resetErrs  []error
	resetCalls int
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Login(_ context.Context, email, password string) services.Result {
	f.loginEmail, f.loginPass = email, password
	return f.loginRes
}
func (f *fakeAuth) Signup(_ context.Context, req models.SignupRequest) services.Result {
	f.signupReq = &req
	return f.signupRes
}
func (f *fakeAuth) Logout(context.Context)                                    { f.logoutCalled = true }
func (f *fakeAuth) VerifyToken(context.Context) bool                          { return true }
func (f *fakeAuth) PopupQR(context.Context) services.QRResult                 { return f.qr }
func (f *fakeAuth) PopupBackupCode(context.Context) services.BackupCodeResult { return f.backup }
func (f *fakeAuth) ForgotPassword(_ context.Context, req models.ForgotPasswordRequest) (string, error) {
	f.forgotReq = req
	return f.forgotToken, f.forgotErr
}
func (f *fakeAuth) ResetPassword(_ context.Context, token, password string) error {
	f.resetToken, f.resetPass = token, password
	f.resetCalls++
	if len(f.resetErrs) == 0 {
		return nil
	}
	err := f.resetErrs[0]
	f.resetErrs = f.resetErrs[1:]
	return err
}
func (f *fakeAuth) EnrollmentPending() bool { return f.enroll }
func (f *fakeAuth) ClearEnrollment()        { f.enroll, f.enrollClear = false, true }

type fakeSession struct {
	state      session.State
	restoreErr error
	claims     session.Claims
	claimsErr  error
}

func (f *fakeSession) Restore(context.Context) (session.State, error) { return f.state, f.restoreErr }
func (f *fakeSession) User() *models.UserRecord                       { return f.state.User }
func (f *fakeSession) Claims() (session.Claims, error)                { return f.claims, f.claimsErr }

type fakeGuard struct {
	err   error
	calls int
}

func (f *fakeGuard) Require(context.Context) error {
	f.calls++
	return f.err
}

type fakeCompanies struct {
	list  map[string]models.CompanySummary
	err   error
	calls int
}

func (f *fakeCompanies) List(context.Context) (map[string]models.CompanySummary, error) {
	f.calls++
	return f.list, f.err
}

type fetchCall struct {
	id     string
	tab    models.Tab
	period models.Period
}

type fakeFetcher struct {
	mu        sync.Mutex
	snapshots []fetchCall
	data      []models.Snapshot
	hist      []models.Snapshot
}

func (f *fakeFetcher) CompanySnapshot(_ context.Context, id string, tab models.Tab, p models.Period) ([]models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, fetchCall{id, tab, p})
	return f.data, nil
}

func (f *fakeFetcher) CompanyHistory(context.Context, string, string) ([]models.Snapshot, error) {
	return f.hist, nil
}

var fixedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type fixture struct {
	app       *App
	out       *bytes.Buffer
	auth      *fakeAuth
	session   *fakeSession
	guard     *fakeGuard
	companies *fakeCompanies
	fetcher   *fakeFetcher
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	f := &fixture{
		out:       &bytes.Buffer{},
		auth:      &fakeAuth{},
		session:   &fakeSession{state: session.State{Kind: session.Authenticated, User: &models.UserRecord{FirstName: "Ann"}}},
		guard:     &fakeGuard{},
		companies: &fakeCompanies{},
		fetcher:   &fakeFetcher{},
	}
	f.app = &App{
		auth:      f.auth,
		companies: f.companies,
		session:   f.session,
		guard:     f.guard,
		fetcher:   f.fetcher,
		printer:   renderer.NewPrinter(f.out),
		reader:    bufio.NewReader(strings.NewReader(input)),
		out:       f.out,
		log:       logging.Nop(),
		now:       func() time.Time { return fixedNow },
		frontend:  "http://app.test",
		qrDir:     t.TempDir(),
	}
	return f
}
