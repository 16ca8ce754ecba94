package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/bubblemigrate/internal/ledger"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledgerColumns = []string{
	"source_url", "bucket", "object_path", "public_url", "content_type",
	"size_bytes", "table_kind", "column_name", "migrated_at",
}

func TestStore_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrated_files").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, ledger.New(mock).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Lookup(t *testing.T) {
	t.Run("Should return a recorded entry", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		rows := mock.NewRows(ledgerColumns).AddRow(
			"https://x.cdn.bubble.io/f1/a.png", "image", "a.png",
			"https://s.example/storage/v1/object/public/image/a.png",
			"image/png", int64(42), "user", "imgprofile", at,
		)
		mock.ExpectQuery("SELECT (.+) FROM migrated_files WHERE source_url = \\$1").
			WithArgs("https://x.cdn.bubble.io/f1/a.png").
			WillReturnRows(rows)

		e, ok, err := ledger.New(mock).Lookup(context.Background(), "https://x.cdn.bubble.io/f1/a.png")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "image", e.Bucket)
		assert.Equal(t, int64(42), e.Size)
		assert.Equal(t, at, e.MigratedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report missing entries without error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT (.+) FROM migrated_files").
			WithArgs("https://x.cdn.bubble.io/f1/b.png").
			WillReturnError(pgx.ErrNoRows)

		_, ok, err := ledger.New(mock).Lookup(context.Background(), "https://x.cdn.bubble.io/f1/b.png")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should wrap query errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT (.+) FROM migrated_files").
			WithArgs("u").
			WillReturnError(boom)

		_, _, err = ledger.New(mock).Lookup(context.Background(), "u")
		assert.ErrorIs(t, err, boom)
	})
}

func TestStore_Record(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := ledger.Entry{
		SourceURL:   "https://x.cdn.bubble.io/f1/a.mp3",
		Bucket:      "track",
		ObjectPath:  "mp3/T1-1.mp3",
		PublicURL:   "https://s.example/storage/v1/object/public/track/mp3/T1-1.mp3",
		ContentType: "audio/mpeg",
		Size:        1024,
		TableKind:   "track",
		ColumnName:  "mp3",
	}
	mock.ExpectExec("INSERT INTO migrated_files").
		WithArgs(e.SourceURL, e.Bucket, e.ObjectPath, e.PublicURL, e.ContentType, e.Size, e.TableKind, e.ColumnName).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, ledger.New(mock).Record(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := ledger.New(mock).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	var l ledger.Ledger = ledger.Noop{}

	require.NoError(t, l.Record(context.Background(), ledger.Entry{SourceURL: "u"}))
	_, ok, err := l.Lookup(context.Background(), "u")
	require.NoError(t, err)
	assert.False(t, ok)
}
