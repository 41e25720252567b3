// Package dashboard drives the company detail view: the selected metrics
// category and period, and the snapshot and history data loaded for them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the part of client.Client the loader needs.
type Fetcher interface {
	CompanySnapshot(ctx context.Context, id string, tab models.Tab, period models.Period) ([]models.Snapshot, error)
	CompanyHistory(ctx context.Context, id, key string) ([]models.Snapshot, error)
}

// State is a copy of the loader state. Data and History are never nil.
type State struct {
	CompanyID string
	Tab       models.Tab
	Period    models.Period

	Data    []models.Snapshot
	History []models.Snapshot

	LoadingData    bool
	LoadingHistory bool
	DataErr        error
	HistoryErr     error

	// Seq identifies the load that produced Data and History.
	Seq uint64
}

// Err joins both fetch errors.
func (s State) Err() error {
	return errors.Join(s.DataErr, s.HistoryErr)
}

func (s State) Loading() bool { return s.LoadingData || s.LoadingHistory }

type Loader struct {
	fetch Fetcher
	log   logging.Logger

	mu     sync.Mutex
	st     State
	cancel context.CancelFunc
}

// NewLoader starts on the finance tab for Q1 of the year of now. Nothing is
// fetched until the first Reload.
func NewLoader(f Fetcher, companyID string, now time.Time, log logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{
		fetch: f,
		log:   log.With("component", "dashboard"),
		st: State{
			CompanyID: companyID,
			Tab:       models.TabFinance,
			Period:    models.DefaultPeriod(now),
			Data:      []models.Snapshot{},
			History:   []models.Snapshot{},
		},
	}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Loader) snapshot() State {
	st := l.st
	st.Data = slices.Clone(st.Data)
	st.History = slices.Clone(st.History)
	return st
}

// SetTab switches the category and loads it.
func (l *Loader) SetTab(ctx context.Context, tab models.Tab) (State, error) {
	return l.load(ctx, func(st *State) { st.Tab = tab })
}

// SetPeriod switches the reporting period and loads it.
func (l *Loader) SetPeriod(ctx context.Context, p models.Period) (State, error) {
	return l.load(ctx, func(st *State) { st.Period = p })
}

// Open switches to another company, keeping tab and period.
func (l *Loader) Open(ctx context.Context, companyID string) (State, error) {
	return l.load(ctx, func(st *State) { st.CompanyID = companyID })
}

// Select switches category and period together with a single load.
func (l *Loader) Select(ctx context.Context, tab models.Tab, p models.Period) (State, error) {
	return l.load(ctx, func(st *State) { st.Tab, st.Period = tab, p })
}

// Reload fetches the current selection again.
func (l *Loader) Reload(ctx context.Context) (State, error) {
	return l.load(ctx, nil)
}

// Retry is Reload after a failure.
func (l *Loader) Retry(ctx context.Context) (State, error) {
	return l.load(ctx, nil)
}

// load applies change, then fetches one snapshot and one history for the new
// selection in parallel. Starting a load cancels the one in flight, and
// results of a superseded load are dropped. The returned state is the one
// current when this load finished.
func (l *Loader) load(ctx context.Context, change func(*State)) (State, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	if change != nil {
		change(&l.st)
	}
	l.st.Seq++
	l.st.LoadingData, l.st.LoadingHistory = true, true
	seq, id, tab, period := l.st.Seq, l.st.CompanyID, l.st.Tab, l.st.Period

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	l.log.Debug(ctx, "loading metrics", "company", id, "tab", tab, "period", period.String(), "seq", seq)

	var g errgroup.Group
	g.Go(func() error {
		data, err := l.fetch.CompanySnapshot(ctx, id, tab, period)
		l.finish(seq, func(st *State) {
			st.LoadingData = false
			st.Data, st.DataErr = result(data, err)
		})
		return err
	})
	g.Go(func() error {
		hist, err := l.fetch.CompanyHistory(ctx, id, tab.HistoryKey())
		l.finish(seq, func(st *State) {
			st.LoadingHistory = false
			st.History, st.HistoryErr = result(hist, err)
		})
		return err
	})
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.snapshot()
	if st.Seq != seq {
		return st, fmt.Errorf("load %d superseded by %d: %w", seq, st.Seq, context.Canceled)
	}
	if err := st.Err(); err != nil {
		l.log.Warn(ctx, "metrics load failed", "company", id, "tab", tab, "error", err)
		return st, err
	}
	return st, nil
}

// finish applies a fetch result unless a newer load has started.
func (l *Loader) finish(seq uint64, apply func(*State)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.Seq != seq {
		return
	}
	apply(&l.st)
}

func result(recs []models.Snapshot, err error) ([]models.Snapshot, error) {
	if err != nil || recs == nil {
		return []models.Snapshot{}, err
	}
	return recs, nil
}
