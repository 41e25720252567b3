package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotCall struct {
	id     string
	tab    models.Tab
	period models.Period
}

type historyCall struct {
	id  string
	key string
}

// fakeFetcher records calls. When gate is set, the first snapshot call blocks
// until gate is closed or its context ends.
type fakeFetcher struct {
	mu        sync.Mutex
	snapshots []snapshotCall
	histories []historyCall

	data    []models.Snapshot
	hist    []models.Snapshot
	dataErr error
	histErr error

	gate    chan struct{}
	started chan struct{}
	gated   bool
}

func (f *fakeFetcher) CompanySnapshot(ctx context.Context, id string, tab models.Tab, p models.Period) ([]models.Snapshot, error) {
	f.mu.Lock()
	f.snapshots = append(f.snapshots, snapshotCall{id, tab, p})
	block := f.gate != nil && !f.gated
	if block {
		f.gated = true
	}
	data, err := f.data, f.dataErr
	f.mu.Unlock()

	if block {
		close(f.started)
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []models.Snapshot{{"stale": true}}, nil
	}
	return data, err
}

func (f *fakeFetcher) CompanyHistory(ctx context.Context, id, key string) ([]models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, historyCall{id, key})
	return f.hist, f.histErr
}

var now = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestNewLoader_Defaults(t *testing.T) {
	st := NewLoader(&fakeFetcher{}, "7", now, nil).State()
	assert.Equal(t, models.TabFinance, st.Tab)
	assert.Equal(t, models.Period{Quarter: "Q1", Year: 2025}, st.Period)
	assert.NotNil(t, st.Data)
	assert.NotNil(t, st.History)
	assert.Zero(t, st.Seq)
}

func TestSetTab_OneSnapshotAndOneHistoryFetch(t *testing.T) {
	f := &fakeFetcher{
		data: []models.Snapshot{{"ltv_ratio": "3"}},
		hist: []models.Snapshot{{"quarter": "Q1", "year": float64(2025)}},
	}
	l := NewLoader(f, "7", now, nil)

	st, err := l.SetTab(context.Background(), models.TabUnitEconomics)
	require.NoError(t, err)

	assert.Equal(t, []snapshotCall{{"7", models.TabUnitEconomics, models.Period{Quarter: "Q1", Year: 2025}}}, f.snapshots)
	assert.Equal(t, []historyCall{{"7", "economics"}}, f.histories)
	assert.Equal(t, f.data, st.Data)
	assert.Equal(t, f.hist, st.History)
	assert.False(t, st.Loading())
	assert.Equal(t, uint64(1), st.Seq)
}

func TestEachChangeFetchesOnce(t *testing.T) {
	f := &fakeFetcher{}
	l := NewLoader(f, "7", now, nil)
	ctx := context.Background()

	_, err := l.Reload(ctx)
	require.NoError(t, err)
	_, err = l.SetPeriod(ctx, models.Period{Quarter: "Q3", Year: 2024})
	require.NoError(t, err)
	_, err = l.SetTab(ctx, models.TabOperational)
	require.NoError(t, err)
	_, err = l.Retry(ctx)
	require.NoError(t, err)
	st, err := l.Open(ctx, "9")
	require.NoError(t, err)

	assert.Len(t, f.snapshots, 5)
	assert.Len(t, f.histories, 5)
	assert.Equal(t, historyCall{"7", "operational"}, f.histories[2])
	assert.Equal(t, models.Period{Quarter: "Q3", Year: 2024}, f.snapshots[3].period)
	assert.Equal(t, "9", f.snapshots[4].id)
	assert.Equal(t, uint64(5), st.Seq)
	assert.NotNil(t, st.Data, "nil results are normalised to empty")
}

func TestSelect_ChangesTabAndPeriodInOneLoad(t *testing.T) {
	f := &fakeFetcher{}
	l := NewLoader(f, "7", now, nil)

	p := models.Period{Quarter: "Q2", Year: 2023}
	st, err := l.Select(context.Background(), models.TabRisk, p)
	require.NoError(t, err)

	assert.Equal(t, []snapshotCall{{"7", models.TabRisk, p}}, f.snapshots)
	assert.Equal(t, []historyCall{{"7", "risk"}}, f.histories)
	assert.Equal(t, models.TabRisk, st.Tab)
	assert.Equal(t, p, st.Period)
}

func TestFailuresAreIndependent(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{
		data:    []models.Snapshot{{"a": 1}},
		hist:    []models.Snapshot{{"b": 2}},
		histErr: boom,
	}
	l := NewLoader(f, "7", now, nil)

	st, err := l.Reload(context.Background())
	require.ErrorIs(t, err, boom)
	assert.NoError(t, st.DataErr)
	assert.Equal(t, f.data, st.Data)
	assert.ErrorIs(t, st.HistoryErr, boom)
	assert.Empty(t, st.History)
	assert.NotNil(t, st.History)

	f.mu.Lock()
	f.histErr, f.dataErr = nil, boom
	f.mu.Unlock()

	st, err = l.Retry(context.Background())
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, st.DataErr, boom)
	assert.Empty(t, st.Data)
	assert.NoError(t, st.HistoryErr)
	assert.Equal(t, f.hist, st.History)
}

func TestStaleLoadIsCancelledAndDiscarded(t *testing.T) {
	f := &fakeFetcher{
		gate:    make(chan struct{}),
		started: make(chan struct{}),
		data:    []models.Snapshot{{"fresh": true}},
	}
	l := NewLoader(f, "7", now, nil)
	ctx := context.Background()

	type outcome struct {
		st  State
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		st, err := l.SetTab(ctx, models.TabMarket)
		first <- outcome{st, err}
	}()

	<-f.started
	assert.True(t, l.State().LoadingData)

	st, err := l.SetTab(ctx, models.TabRisk)
	require.NoError(t, err)
	assert.Equal(t, models.TabRisk, st.Tab)
	assert.Equal(t, []models.Snapshot{{"fresh": true}}, st.Data)

	close(f.gate)
	old := <-first
	require.ErrorIs(t, old.err, context.Canceled)
	assert.Equal(t, st.Seq, old.st.Seq)

	final := l.State()
	assert.Equal(t, models.TabRisk, final.Tab)
	assert.Equal(t, []models.Snapshot{{"fresh": true}}, final.Data)
	assert.False(t, final.Loading())
}

func TestState_IsACopy(t *testing.T) {
	f := &fakeFetcher{data: []models.Snapshot{{"a": 1}}}
	l := NewLoader(f, "7", now, nil)
	_, err := l.Reload(context.Background())
	require.NoError(t, err)

	st := l.State()
	st.Data[0] = models.Snapshot{"changed": true}
	st.Data = append(st.Data, models.Snapshot{})
	assert.Equal(t, []models.Snapshot{{"a": 1}}, l.State().Data)
}
