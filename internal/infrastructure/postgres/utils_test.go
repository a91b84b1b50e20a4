package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingQuerier responde como Postgres ante un id mal formado y cuenta las consultas.
type rejectingQuerier struct {
	calls int
}

var errBadUUID = &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

func (q *rejectingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.CommandTag{}, errBadUUID
}

func (q *rejectingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	q.calls++
	return nil, errBadUUID
}

func (q *rejectingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	return errRow{errBadUUID}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID(uuid.New().String()))
	for _, id := range []string{"", "abc", "123", "00000000-0000-0000-0000"} {
		assert.False(t, isUUID(id), id)
	}
}

func TestRepos_MalformedIDIsMissingRow(t *testing.T) {
	ctx := context.Background()
	q := &rejectingQuerier{}

	creator, err := NewCreatorRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, creator)
	creator, err = NewCreatorRepository(q).GetByIDForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, creator)

	deal, err := NewDealRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, deal)
	deal, err = NewDealRepository(q).GetByIDForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, deal)

	user, err := NewUserRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, user)

	assert.Zero(t, q.calls)
}

func TestRepos_WellFormedIDStillQueries(t *testing.T) {
	q := &rejectingQuerier{}

	_, err := NewCreatorRepository(q).GetByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, 1, q.calls)
}
