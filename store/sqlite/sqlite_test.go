package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline/arrears/recon"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleStatement() recon.Statement {
	opening := decimal.NewFromInt(100)
	return recon.Statement{
		Transactions: []recon.Transaction{
			{
				Date:    recon.NewDate(2024, time.January, 15),
				Credit:  decimal.NewFromInt(1000),
				DueDate: recon.NewDate(2024, time.July, 13),
			},
			{
				Date:  recon.NewDate(2024, time.February, 20),
				Debit: decimal.NewFromInt(400),
			},
		},
		OpeningBalance: &opening,
	}
}

func TestStatementRoundTrip(t *testing.T) {
	// GIVEN: A normalized statement with an opening balance
	// WHEN: Saving and reloading
	// THEN: Transactions, balances, and metadata survive intact

	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveStatement(ctx, StatementRecord{
		ID:          "stmt-1",
		Name:        "jan.csv",
		Statement:   sampleStatement(),
		RowsDropped: 2,
		UploadedAt:  time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := store.GetStatement(ctx, "stmt-1")
	require.NoError(t, err)

	assert.Equal(t, "jan.csv", got.Name)
	assert.Equal(t, 2, got.RowsDropped)
	require.Len(t, got.Statement.Transactions, 2)

	tx := got.Statement.Transactions[0]
	assert.True(t, tx.Date.Equal(recon.NewDate(2024, time.January, 15)))
	assert.True(t, tx.Credit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, tx.DueDate.Equal(recon.NewDate(2024, time.July, 13)))

	require.NotNil(t, got.Statement.OpeningBalance)
	assert.True(t, got.Statement.OpeningBalance.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, got.Statement.ClosingBalance)
}

func TestGetStatement_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetStatement(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListStatements_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveStatement(ctx, StatementRecord{
			ID:         id,
			Name:       id + ".csv",
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := store.ListStatements(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "old", records[2].ID)
}

func TestRunRoundTripAndFingerprintCache(t *testing.T) {
	// GIVEN: A stored statement and a completed run
	// WHEN: Saving the run and looking it up by fingerprint
	// THEN: The cache lookup returns the stored report

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveStatement(ctx, StatementRecord{
		ID: "stmt-1", Name: "jan.csv", Statement: sampleStatement(), UploadedAt: time.Now(),
	}))

	cfg := recon.DefaultConfig()
	cfg.ReferenceDate = recon.NewDate(2024, time.August, 30)
	rep, err := recon.Reconcile(sampleStatement(), cfg)
	require.NoError(t, err)

	run := RunRecord{
		ID:          "run-1",
		StatementID: "stmt-1",
		Fingerprint: recon.Fingerprint(sampleStatement(), cfg),
		Config:      cfg,
		Report:      *rep,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.SaveRun(ctx, run))

	cached, err := store.GetRunByFingerprint(ctx, run.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "run-1", cached.ID)
	assert.Equal(t, cfg.RatePolicy, cached.Config.RatePolicy)
	assert.True(t, cached.Report.Summary.ReferenceDate.Equal(cfg.ReferenceDate))
	assert.Len(t, cached.Report.Overdue, len(rep.Overdue))

	// Saving the identical fingerprint again is rejected.
	run.ID = "run-2"
	assert.Error(t, store.SaveRun(ctx, run))
}

func TestGetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetRunByFingerprint(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRuns_FiltersByStatement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, store.SaveStatement(ctx, StatementRecord{ID: id, Name: id, UploadedAt: now}))
	}

	mkRun := func(id, stmtID string, at time.Time) RunRecord {
		return RunRecord{
			ID: id, StatementID: stmtID, Fingerprint: "fp-" + id,
			Config: recon.DefaultConfig(), CreatedAt: at,
		}
	}
	require.NoError(t, store.SaveRun(ctx, mkRun("r1", "a", now)))
	require.NoError(t, store.SaveRun(ctx, mkRun("r2", "a", now.Add(time.Minute))))
	require.NoError(t, store.SaveRun(ctx, mkRun("r3", "b", now)))

	all, err := store.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := store.ListRuns(ctx, "a")
	require.NoError(t, err)
	require.Len(t, forA, 2)
	assert.Equal(t, "r2", forA[0].ID, "newest first")
}
