package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran-dev/storefront/pkg/ptr"
)

func setupOutboxMsgRepo(t *testing.T) (OutboxMsgRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewOutboxMsgRepository(mockDB{mock}), mock
}

func TestOutboxMsgRepository_CreateOutboxMsg(t *testing.T) {
	repo, mock := setupOutboxMsgRepo(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO outbox_messages").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.CreateOutboxMsg(context.Background(), CreateOutboxMsgParams{
		Topic:        "catalog.product.created",
		Headers:      map[string]string{"X-Correlation-ID": "abc"},
		Payload:      json.RawMessage(`{"productId":"p-1"}`),
		PartitionKey: ptr.New("p-1"),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMsgRepository_ListUnprocessedOutboxMsgs(t *testing.T) {
	repo, mock := setupOutboxMsgRepo(t)
	defer mock.Close()

	id, err := uuid.NewV7()
	require.NoError(t, err)
	headers := json.RawMessage(`{"X-Correlation-ID":"abc"}`)

	mock.ExpectQuery("(?s)SELECT (.+) FROM outbox_messages").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "topic", "headers", "payload", "partition_key"}).
			AddRow(id, "catalog.product.created", &headers, json.RawMessage(`{"productId":"p-1"}`), ptr.New("p-1")))

	results, err := repo.ListUnprocessedOutboxMsgs(context.Background(), ListUnprocessedOutboxMsgsParams{BatchSize: 10})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)
	assert.Equal(t, "catalog.product.created", results[0].Topic)
	assert.Equal(t, map[string]string{"X-Correlation-ID": "abc"}, results[0].Headers)
	assert.Equal(t, "p-1", *results[0].PartitionKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMsgRepository_BulkUpdateOutboxMsgs(t *testing.T) {
	repo, mock := setupOutboxMsgRepo(t)
	defer mock.Close()

	id1, _ := uuid.NewV7()
	id2, _ := uuid.NewV7()

	mock.ExpectExec("(?s)UPDATE outbox_messages").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	err := repo.BulkUpdateOutboxMsgs(context.Background(), BulkUpdateOutboxMsgsParams{
		Items: []BulkUpdateOutboxMsgsItem{
			{ID: id1},
			{ID: id2, Error: ptr.New("produce timeout")},
		},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
