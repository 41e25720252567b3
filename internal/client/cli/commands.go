package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/dmitrijs2005/vcdash/internal/client/guard"
	"github.com/google/subcommands"
)

// Register adds every vcdash command to c.
func Register(c *subcommands.Commander, a *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&simpleCmd{app: a, name: "login", synopsis: "sign in with email and password", run: (*App).Login}, "session")
	c.Register(&simpleCmd{app: a, name: "signup", synopsis: "create an account", run: (*App).Signup}, "session")
	c.Register(&simpleCmd{app: a, name: "logout", synopsis: "end the local session", run: (*App).Logout}, "session")
	c.Register(&simpleCmd{app: a, name: "whoami", synopsis: "show the signed-in user", run: (*App).Whoami}, "session")
	c.Register(&simpleCmd{app: a, name: "verify", synopsis: "check the session with the backend", run: (*App).Verify}, "session")
	c.Register(&simpleCmd{app: a, name: "totp", synopsis: "show the two-factor QR code and backup code", run: (*App).TOTP}, "session")
	c.Register(&simpleCmd{app: a, name: "forgot-password", synopsis: "reset the password with a backup code or OTP", run: (*App).ForgotPassword}, "session")

	c.Register(&companiesCmd{app: a}, "portfolio")
	c.Register(&companyCmd{app: a}, "portfolio")
	c.Register(&simpleCmd{app: a, name: "shell", synopsis: "browse companies interactively", run: (*App).Shell}, "portfolio")
}

// reportedError is a command failure whose message was already printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// exitStatus maps a command error to the process exit status. Errors the
// command has not shown yet are printed.
func (a *App) exitStatus(err error) subcommands.ExitStatus {
	var shown reportedError
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, guard.ErrLoginRequired):
		a.printf("%s\n", MsgLoginRequired)
	case errors.As(err, &shown):
		a.log.Debug(context.Background(), "command failed", "error", err)
	default:
		a.printf("error: %v\n", err)
		a.log.Warn(context.Background(), "command failed", "error", err)
	}
	return subcommands.ExitFailure
}

// simpleCmd is a command without flags or arguments.
type simpleCmd struct {
	app      *App
	name     string
	synopsis string
	run      func(*App, context.Context) error
}

func (c *simpleCmd) Name() string     { return c.name }
func (c *simpleCmd) Synopsis() string { return c.synopsis }
func (c *simpleCmd) Usage() string {
	return c.name + "\n\n" + c.synopsis + ".\n"
}

func (c *simpleCmd) SetFlags(f *flag.FlagSet) {}

func (c *simpleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return c.app.exitStatus(c.run(c.app, ctx))
}

type companiesCmd struct {
	app    *App
	sector string
}

func (*companiesCmd) Name() string     { return "companies" }
func (*companiesCmd) Synopsis() string { return "list portfolio companies" }
func (*companiesCmd) Usage() string {
	return `companies [-sector <sector>]

List the portfolio companies, optionally only those of one sector.
`
}

func (c *companiesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sector, "sector", "", "only list companies of this sector or tag")
}

func (c *companiesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.exitStatus(c.app.Companies(ctx, c.sector))
}

type companyCmd struct {
	app     *App
	id      string
	name    string
	tab     string
	quarter string
	year    string
}

func (*companyCmd) Name() string     { return "company" }
func (*companyCmd) Synopsis() string { return "show the metrics of a company" }
func (*companyCmd) Usage() string {
	return `company -id <id> [-name <name>] [-tab <tab>] [-quarter <Qn>] [-year <year>]

Show one metrics category of a company for a reporting period. The default
is the finance tab for Q1 of the current year.

Tabs: finance, market, uniteconomics, product, teamperf, fund, competitive,
operation, risk, additional, self.
`
}

func (c *companyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "company id (required)")
	f.StringVar(&c.name, "name", "", "company name shown in the heading")
	f.StringVar(&c.tab, "tab", "", "metrics category")
	f.StringVar(&c.quarter, "quarter", "", "reporting quarter, Q1 to Q4")
	f.StringVar(&c.year, "year", "", "reporting year")
}

func (c *companyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tab, period, err := parseSelection(c.tab, c.quarter, c.year, c.app.now())
	if err != nil {
		c.app.printf("%v\n", err)
		return subcommands.ExitUsageError
	}
	return c.app.exitStatus(c.app.Company(ctx, c.id, c.name, tab, period))
}
