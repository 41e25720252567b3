package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/client"
	"github.com/dmitrijs2005/vcdash/internal/client/config"
	"github.com/dmitrijs2005/vcdash/internal/client/dashboard"
	"github.com/dmitrijs2005/vcdash/internal/client/guard"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/renderer"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/dmitrijs2005/vcdash/internal/client/storage"
	"github.com/dmitrijs2005/vcdash/internal/logging"
)

// Session is the read side of the session store used by the commands.
type Session interface {
	Restore(ctx context.Context) (session.State, error)
	User() *models.UserRecord
	Claims() (session.Claims, error)
}

// Guard gates commands that need a verified session.
type Guard interface {
	Require(ctx context.Context) error
}

type App struct {
	auth      services.AuthService
	companies services.CompanyService
	session   Session
	guard     Guard
	fetcher   dashboard.Fetcher

	printer *renderer.Printer
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
	now     func() time.Time

	frontend string
	qrDir    string
	closer   io.Closer
}

// NewApp opens the session database at cfg.SessionDSN and builds the
// services on top of an HTTP client for cfg.BackendAPI.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.SessionDSN)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	store := session.New(db)
	api := client.NewHTTPClient(client.Options{
		BaseURL: cfg.BackendAPI,
		Timeout: cfg.RequestTimeout,
		RPS:     cfg.RPS,
		Burst:   cfg.Burst,
		Logger:  log,
	}, store)
	auth := services.NewAuthService(api, store, log)

	return &App{
		auth:      auth,
		companies: services.NewCompanyService(api, log),
		session:   store,
		guard:     guard.New(store, auth, log),
		fetcher:   api,
		printer:   renderer.NewPrinter(os.Stdout),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		log:       log,
		now:       time.Now,
		frontend:  cfg.FrontendURL,
		qrDir:     ".",
		closer:    db,
	}, nil
}

// Close releases the session database.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) print(md string) {
	if err := a.printer.Print(md); err != nil {
		a.log.Warn(context.Background(), "print failed", "error", err)
	}
}
