package cli

import (
	"context"
	"errors"
	"flag"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/dmitrijs2005/vcdash/internal/client/guard"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, f *fixture, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("vcdash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	require.NoError(t, fs.Parse(args))

	cmdr := subcommands.NewCommander(fs, "vcdash")
	cmdr.Output, cmdr.Error = io.Discard, io.Discard
	Register(cmdr, f.app)
	return cmdr.Execute(context.Background())
}

func TestCommands_ExitStatus(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, subcommands.ExitSuccess, execute(t, f, "logout"))
	assert.True(t, f.auth.logoutCalled)

	f = newFixture(t, "")
	assert.Equal(t, subcommands.ExitUsageError, execute(t, f, "logout", "now"))
	assert.False(t, f.auth.logoutCalled)

	f = newFixture(t, "")
	assert.Equal(t, subcommands.ExitUsageError, execute(t, f, "nosuchcommand"))
}

func TestCommands_LoginRequiredMessage(t *testing.T) {
	f := newFixture(t, "")
	f.session.state = session.State{Kind: session.Unauthenticated}

	assert.Equal(t, subcommands.ExitFailure, execute(t, f, "whoami"))
	assert.Contains(t, f.out.String(), MsgLoginRequired)
}

func TestCommands_Companies(t *testing.T) {
	f := newFixture(t, "")
	f.companies.list = roster()

	assert.Equal(t, subcommands.ExitSuccess, execute(t, f, "companies", "-sector", "EdTech"))
	assert.Contains(t, f.out.String(), "Learnly")
	assert.NotContains(t, f.out.String(), "Scanly")
}

func TestCommands_Company(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, subcommands.ExitUsageError, execute(t, f, "company"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, f, "company", "-id", "7", "-tab", "weather"))
	assert.Empty(t, f.fetcher.snapshots)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, f, "company", "-id", "7", "-tab", "self", "-quarter", "Q2", "-year", "2025"))
	require.Len(t, f.fetcher.snapshots, 1)
	assert.Equal(t, "Q2 2025", f.fetcher.snapshots[0].period.String())
}

func TestExitStatus(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, subcommands.ExitSuccess, f.app.exitStatus(nil))
	assert.Empty(t, f.out.String())

	assert.Equal(t, subcommands.ExitFailure, f.app.exitStatus(reported(errors.New("Invalid credentials"))))
	assert.Empty(t, f.out.String())

	assert.Equal(t, subcommands.ExitFailure, f.app.exitStatus(errors.New("boom")))
	assert.Equal(t, "error: boom\n", f.out.String())

	f.out.Reset()
	assert.Equal(t, subcommands.ExitFailure, f.app.exitStatus(guard.ErrLoginRequired))
	assert.Equal(t, MsgLoginRequired+"\n", f.out.String())
}

func TestCommands_StorageFailureIsPrinted(t *testing.T) {
	f := newFixture(t, "")
	f.session.restoreErr = errors.New("database is locked")

	assert.Equal(t, subcommands.ExitFailure, execute(t, f, "whoami"))
	assert.Contains(t, f.out.String(), "error: restore session: database is locked")
}

func TestCommands_ShownFailureIsNotRepeated(t *testing.T) {
	f := newFixture(t, "")
	f.auth.loginRes = services.Result{Message: "Invalid credentials", Status: services.StatusFailed}
	stubInputs(t, "ann@example.org", "wrong")

	assert.Equal(t, subcommands.ExitFailure, execute(t, f, "login"))
	assert.Equal(t, 1, strings.Count(f.out.String(), "Invalid credentials"))
	assert.NotContains(t, f.out.String(), "error:")
}

func TestCompletion(t *testing.T) {
	c := Completion(fixedNow)

	var subs []string
	for name := range c.Sub {
		subs = append(subs, name)
	}
	sort.Strings(subs)
	assert.Equal(t, []string{
		"companies", "company", "forgot-password", "login", "logout",
		"shell", "signup", "totp", "verify", "whoami",
	}, subs)

	company := c.Sub["company"]
	assert.Contains(t, company.Flags["tab"].Predict(""), "uniteconomics")
	assert.Contains(t, company.Flags["year"].Predict(""), "2017")
	assert.NotContains(t, company.Flags["year"].Predict(""), "2016")
}
