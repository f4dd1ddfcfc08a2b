package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/fx-ticks/internal/model"
)

type fakeResults struct {
	n      int
	failAt int
	err    error
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	r.n++
	if r.err != nil && r.n == r.failAt {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (r *fakeResults) QueryRow() pgx.Row        { return nil }
func (r *fakeResults) Close() error             { return nil }

type fakeSender struct {
	batches []*pgx.Batch
	failAt  int
	err     error
}

func (s *fakeSender) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	s.batches = append(s.batches, b)
	return &fakeResults{failAt: s.failAt, err: s.err}
}

func manyTicks(n int) []model.Tick {
	ticks := make([]model.Tick, n)
	for i := range ticks {
		ticks[i] = model.Tick{Timestamp: testUnit.Hour, Ask: 1.1, Bid: 1.0}
	}
	return ticks
}

func TestPostgresWriter_Chunks(t *testing.T) {
	sender := &fakeSender{}
	w, err := NewPostgresWriter(sender, "raw_ticks", 2, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), testUnit, manyTicks(5)))

	require.Len(t, sender.batches, 3)
	assert.Equal(t, 2, sender.batches[0].Len())
	assert.Equal(t, 2, sender.batches[1].Len())
	assert.Equal(t, 1, sender.batches[2].Len())

	q := sender.batches[0].QueuedQueries[0]
	assert.Equal(t,
		`INSERT INTO "raw_ticks" (ts, pair, ask, bid, ask_volume, bid_volume) VALUES ($1, $2, $3, $4, $5, $6)`,
		q.SQL)
	assert.Equal(t, "EURUSD", q.Arguments[1])
}

func TestPostgresWriter_SchemaQualified(t *testing.T) {
	sender := &fakeSender{}
	w, err := NewPostgresWriter(sender, "market.raw_ticks", 10, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), testUnit, manyTicks(1)))
	assert.Contains(t, sender.batches[0].QueuedQueries[0].SQL, `INSERT INTO "market"."raw_ticks"`)
}

func TestPostgresWriter_EmptyIsNoop(t *testing.T) {
	sender := &fakeSender{}
	w, err := NewPostgresWriter(sender, "raw_ticks", 10, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), testUnit, nil))
	assert.Empty(t, sender.batches)
}

func TestPostgresWriter_ExecError(t *testing.T) {
	boom := errors.New("relation does not exist")
	sender := &fakeSender{failAt: 2, err: boom}
	w, err := NewPostgresWriter(sender, "raw_ticks", 10, nil)
	require.NoError(t, err)

	err = w.Write(context.Background(), testUnit, manyTicks(3))
	assert.ErrorIs(t, err, boom)
}

func TestNewPostgresWriter_Invalid(t *testing.T) {
	_, err := NewPostgresWriter(&fakeSender{}, "", 10, nil)
	assert.Error(t, err)

	_, err = NewPostgresWriter(&fakeSender{}, "raw_ticks", 0, nil)
	assert.Error(t, err)
}
