package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vcdash/internal/client/dashboard"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/renderer"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real shell type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasCompany() bool
	List(ctx context.Context, sector string) error
	Open(ctx context.Context, id string) error
	Tabs() error
	Tab(ctx context.Context, name string) error
	Period(ctx context.Context, quarter, year string) error
	Retry(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop over the company dashboard.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, after "logout", or when
// the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current company, tab and period (from statusFn) and
// accepts commands:
//
//	help                  show available commands
//	list [sector]         list companies, optionally of one sector
//	open <id>             open a company on its current tab and period
//	tabs                  list the metric categories
//	tab <name>            switch category
//	period <Qn> <year>    switch reporting period
//	retry                 load the current selection again
//	logout                end the session and leave
//	exit | quit           leave the program
//
// Errors returned by command handlers are printed here and do not stop the
// loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.hasCompany() {
				printlnFn("Available commands: list [sector], open <id>, tabs, tab <name>, period <Qn> <year>, retry, logout, exit")
			} else {
				printlnFn("Available commands: list [sector], open <id>, tabs, logout, exit")
			}

		case "l", "list":
			err = a.List(ctx, strings.Join(args, " "))

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <id>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "tabs":
			err = a.Tabs()

		case "tab":
			if len(args) != 1 {
				printlnFn("Usage: tab <name>")
				continue
			}
			err = a.Tab(ctx, args[0])

		case "period":
			if len(args) != 2 {
				printlnFn("Usage: period <Qn> <year>")
				continue
			}
			err = a.Period(ctx, args[0], args[1])

		case "retry":
			err = a.Retry(ctx)

		case "logout":
			_ = a.Logout(ctx)
			return

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}

// shell is the interactive company browser behind the shell command.
type shell struct {
	app    *App
	loader *dashboard.Loader
	names  map[string]string
}

func newShell(a *App) *shell {
	return &shell{app: a, names: map[string]string{}}
}

func (s *shell) hasCompany() bool { return s.loader != nil }

func (s *shell) status() string {
	if s.loader == nil {
		return ""
	}
	st := s.loader.State()
	name := s.names[st.CompanyID]
	if name == "" {
		name = "#" + st.CompanyID
	}
	return fmt.Sprintf("(%s %s %s)", name, st.Tab, st.Period)
}

func (s *shell) List(ctx context.Context, sector string) error {
	list, err := s.app.listCompanies(ctx, sector)
	for _, c := range list {
		s.names[c.ID] = c.Name
	}
	return err
}

func (s *shell) Open(ctx context.Context, id string) error {
	if s.loader == nil {
		s.loader = dashboard.NewLoader(s.app.fetcher, id, s.app.now(), s.app.log)
		return s.show(s.loader.Reload(ctx))
	}
	return s.show(s.loader.Open(ctx, id))
}

func (s *shell) Tabs() error {
	names := make([]string, 0, len(models.Tabs))
	for _, t := range models.Tabs {
		names = append(names, string(t))
	}
	printlnFn(strings.Join(names, ", "))
	return nil
}

func (s *shell) Tab(ctx context.Context, name string) error {
	if s.loader == nil {
		return errNoCompany
	}
	tab, err := models.ParseTab(name)
	if err != nil {
		return err
	}
	return s.show(s.loader.SetTab(ctx, tab))
}

func (s *shell) Period(ctx context.Context, quarter, year string) error {
	if s.loader == nil {
		return errNoCompany
	}
	p, err := models.ParsePeriod(quarter, year, s.app.now())
	if err != nil {
		return err
	}
	return s.show(s.loader.SetPeriod(ctx, p))
}

func (s *shell) Retry(ctx context.Context) error {
	if s.loader == nil {
		return errNoCompany
	}
	return s.show(s.loader.Retry(ctx))
}

func (s *shell) Logout(ctx context.Context) error {
	return s.app.Logout(ctx)
}

// show prints the dashboard. Load errors are part of the printed view.
func (s *shell) show(st dashboard.State, err error) error {
	s.app.print(renderer.Dashboard(s.names[st.CompanyID], st, s.app.now()))
	if err != nil {
		s.app.log.Debug(context.Background(), "load finished with errors", "error", err)
	}
	return nil
}

// Shell runs the interactive browser until the user leaves.
func (a *App) Shell(ctx context.Context) error {
	if err := a.guard.Require(ctx); err != nil {
		return err
	}
	a.printf("Welcome, %s! Type 'help' for commands.\n", a.session.User().DisplayName())

	s := newShell(a)
	if err := s.List(ctx, ""); err != nil {
		a.log.Warn(ctx, "initial company list failed", "error", err)
	}
	runREPL(ctx, s, s.status, bufio.NewScanner(a.reader))
	return nil
}
