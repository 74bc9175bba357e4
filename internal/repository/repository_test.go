package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/teltube/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "pgx"), mock
}

var userCols = []string{"id", "email", "password_hash", "name", "avatar_url", "google_id", "created_at"}

func TestMigrate_RunsGoose(t *testing.T) {
	db, _ := newMockDB(t)

	called := false
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(ctx context.Context, got *sqlx.DB) error {
		called = true
		assert.Same(t, db, got)
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.True(t, called)
}

func TestMigrate_WrapsError(t *testing.T) {
	db, _ := newMockDB(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(context.Context, *sqlx.DB) error { return errors.New("boom") }

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migrations: boom")
}

func TestUserRepository_CreatePasswordAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(email, password_hash, name\)\s+SELECT [\s\S]+WHERE NOT EXISTS \(SELECT 1 FROM users WHERE email = \$1::text\)`).
		WithArgs("a@example.com", "hash", "Alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "a@example.com", "hash", "Alice", nil, nil, now))

	user, err := repo.CreatePasswordAccount(context.Background(), "a@example.com", "hash", "Alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Alice", user.Name)
	require.NotNil(t, user.PasswordHash)
	assert.Equal(t, "hash", *user.PasswordHash)
	assert.Nil(t, user.AvatarURL)
}

func TestUserRepository_CreatePasswordAccount_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@example.com", "hash", "Alice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.CreatePasswordAccount(context.Background(), "a@example.com", "hash", "Alice")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepository_CreatePasswordAccount_EmailHeldByGoogleAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("g@example.com", "hash", "Gina").
		WillReturnRows(sqlmock.NewRows(userCols))

	user, err := repo.CreatePasswordAccount(context.Background(), "g@example.com", "hash", "Gina")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepository_EmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_FindPasswordAccount_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE email = \$1 AND password_hash IS NOT NULL`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindPasswordAccount(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_FindByGoogleID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE google_id = \$1`).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "g@example.com", nil, "Gina", "https://img/g.png", "g-1", now))

	user, err := repo.FindByGoogleID(context.Background(), "g-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Nil(t, user.PasswordHash)
	assert.Equal(t, "https://img/g.png", user.Public().Avatar)
}

func TestUserRepository_FindByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_CreateGoogleAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(email, name, avatar_url, google_id\)(.|\n)*ON CONFLICT \(google_id\)`).
		WithArgs("g@example.com", "Gina", nil, "g-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "g@example.com", nil, "Gina", nil, "g-1", now))

	user, err := repo.CreateGoogleAccount(context.Background(), domain.GoogleProfile{
		GoogleID: "g-1",
		Email:    "g@example.com",
		Name:     "Gina",
	})
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-1", *user.GoogleID)
	assert.Equal(t, "", user.Public().Avatar)
}

var channelVideoCols = []string{
	"id", "user_id", "title", "description", "video_url", "thumbnail_url",
	"duration", "views", "created_at", "channel_name", "channel_avatar",
}

func TestVideoRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)
	newer := time.Now()
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(`JOIN users u ON v.user_id = u.id\s+WHERE v.user_id = \$1\s+ORDER BY v.created_at DESC, v.id DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(channelVideoCols).
			AddRow(int64(2), int64(1), "New", "", "https://x/2.m3u8", "", 12.5, int64(0), newer, "Alice", nil).
			AddRow(int64(1), int64(1), "Old", "d", "https://x/1.m3u8", "t", 3.0, int64(4), older, "Alice", "https://img/a.png"))

	videos, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "New", videos[0].Title)
	assert.Equal(t, "Alice", videos[0].ChannelName)
	assert.Nil(t, videos[0].ChannelAvatar)
	assert.Equal(t, int64(4), videos[1].Views)
	assert.Equal(t, 12.5, videos[0].Duration)
}

func TestVideoRepository_ListRecent_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectQuery(`ORDER BY v.created_at DESC, v.id DESC\s+LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(channelVideoCols))

	videos, err := repo.ListRecent(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestVideoRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO videos`).
		WithArgs(int64(1), "Demo", "", "https://x/playback.m3u8", "", 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "video_url", "thumbnail_url", "created_at"}).
			AddRow(int64(10), "Demo", "https://x/playback.m3u8", "", now))

	created, err := repo.Create(context.Background(), domain.NewVideo{
		UserID:   1,
		Title:    "Demo",
		VideoURL: "https://x/playback.m3u8",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, "Demo", created.Title)
	assert.Equal(t, "https://x/playback.m3u8", created.VideoURL)
}

func TestVideoRepository_Create_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectQuery(`INSERT INTO videos`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), domain.NewVideo{UserID: 99, Title: "x", VideoURL: "y"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "user_id", vErr.Field)
}

func TestVideoRepository_IncrementViews(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectQuery(`UPDATE videos SET views = views \+ 1 WHERE id = \$1 RETURNING views`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"views"}).AddRow(int64(8)))

	views, err := repo.IncrementViews(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), views)
}

func TestVideoRepository_IncrementViews_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVideoRepository(db)

	mock.ExpectQuery(`UPDATE videos SET views`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"views"}))

	_, err := repo.IncrementViews(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
