package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/repository"
)

var linkColumnNames = []string{"id", "workspace_id", "domain", "key", "url"}

func TestLinkRepo_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLinkRepo(mock)

	mock.ExpectQuery("FROM links WHERE workspace_id = .* AND id = ").
		WithArgs("ws_1", "lnk_1").
		WillReturnRows(pgxmock.NewRows(linkColumnNames).
			AddRow("lnk_1", "ws_1", "acme.link", "launch", "https://acme.com/launch"))

	link, err := repo.FindByID(context.Background(), "ws_1", "lnk_1")
	require.NoError(t, err)
	assert.Equal(t, &entity.Link{
		ID:          "lnk_1",
		WorkspaceID: "ws_1",
		Domain:      "acme.link",
		Key:         "launch",
		URL:         "https://acme.com/launch",
	}, link)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepo_FindByDomainKey_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLinkRepo(mock)

	mock.ExpectQuery("FROM links WHERE workspace_id = .* AND domain = .* AND key = ").
		WithArgs("ws_1", "acme.link", "nope").
		WillReturnError(pgx.ErrNoRows)

	link, err := repo.FindByDomainKey(context.Background(), "ws_1", "acme.link", "nope")
	assert.Nil(t, link)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepo_FindManyByIDs(t *testing.T) {
	t.Run("returns matching links", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewLinkRepo(mock)
		ids := []string{"lnk_1", "lnk_2", "dom_1"}

		mock.ExpectQuery("FROM links WHERE workspace_id = .* AND id = ANY").
			WithArgs("ws_1", ids).
			WillReturnRows(pgxmock.NewRows(linkColumnNames).
				AddRow("lnk_1", "ws_1", "acme.link", "a", "https://acme.com/a").
				AddRow("lnk_2", "ws_1", "acme.link", "b", "https://acme.com/b"))

		links, err := repo.FindManyByIDs(context.Background(), "ws_1", ids)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "lnk_1", links[0].ID)
		assert.Equal(t, "b", links[1].Key)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ids skip the query", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		links, err := NewLinkRepo(mock).FindManyByIDs(context.Background(), "ws_1", nil)
		require.NoError(t, err)
		assert.Empty(t, links)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery("FROM links").
			WithArgs("ws_1", []string{"lnk_1"}).
			WillReturnError(boom)

		_, err = NewLinkRepo(mock).FindManyByIDs(context.Background(), "ws_1", []string{"lnk_1"})
		assert.ErrorIs(t, err, boom)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
