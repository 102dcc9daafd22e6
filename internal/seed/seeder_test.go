package seed

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hungpv1995/blog-seeder/internal/database"
	"github.com/hungpv1995/blog-seeder/internal/models"
	"github.com/hungpv1995/blog-seeder/internal/repository"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db     *sql.DB
	posts  *repository.PostRepository
	users  *repository.UserRepository
	seeder *Seeder
}

func newTestEnv(t *testing.T, foreignKeys bool) *testEnv {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "blog.db")
	if foreignKeys {
		dsn += "?_foreign_keys=on"
	}
	db, err := database.Open(ctx, "sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, "sqlite3"))

	posts := repository.NewPostRepository(db)
	s := New(posts, zaptest.NewLogger(t))
	s.Now = func() time.Time { return fixedNow }
	s.Rand = rand.New(rand.NewSource(1))

	return &testEnv{db: db, posts: posts, users: repository.NewUserRepository(db), seeder: s}
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	n, err := e.posts.CountPosts(context.Background())
	require.NoError(t, err)
	return n
}

func (e *testEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), name, name+"@example.com")
	require.NoError(t, err)
	return u
}

func TestRunSingleRecord(t *testing.T) {
	env := newTestEnv(t, true)
	u := env.createUser(t, "athena")
	require.Equal(t, 1, u.ID)
	path := writeFixture(t, `[{"title":"T","content":"C","user_id":1}]`)

	n, err := env.seeder.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := env.posts.ListRecentPosts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, "C", p.Content)
	assert.Equal(t, 1, p.AuthorID)
	assert.False(t, p.DatePosted.Before(fixedNow.Add(-MaxWeeksBack*7*24*time.Hour)))
	assert.False(t, p.DatePosted.After(fixedNow))
}

func TestRunRowCountAndDates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	a := env.createUser(t, "athena")
	b := env.createUser(t, "bob")

	records := make([]models.PostRecord, 0, 200)
	for i := 0; i < 200; i++ {
		author := a.ID
		if i%2 == 1 {
			author = b.ID
		}
		records = append(records, models.PostRecord{Title: "post", Content: "body", UserID: author})
	}

	n, err := env.seeder.Seed(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)
	assert.Equal(t, len(records), env.count(t))

	list, err := env.posts.ListRecentPosts(ctx, len(records))
	require.NoError(t, err)
	oldest := fixedNow.Add(-MaxWeeksBack * 7 * 24 * time.Hour)
	for _, p := range list {
		assert.False(t, p.DatePosted.Before(oldest), "post %d dated %s", p.ID, p.DatePosted)
		assert.False(t, p.DatePosted.After(fixedNow), "post %d dated %s", p.ID, p.DatePosted)
		offset := fixedNow.Sub(p.DatePosted)
		assert.Zero(t, offset%(7*24*time.Hour), "offset is a whole number of weeks")
	}
}

func TestRunTwiceDuplicates(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	path := writeFixture(t, `[
		{"title":"A","content":"a","user_id":1},
		{"title":"B","content":"b","user_id":1},
		{"title":"C","content":"c","user_id":1}
	]`)

	_, err := env.seeder.Run(context.Background(), path)
	require.NoError(t, err)
	_, err = env.seeder.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, env.count(t))
}

func TestRunDanglingAuthorForeignKey(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	path := writeFixture(t, `[
		{"title":"A","content":"a","user_id":1},
		{"title":"B","content":"b","user_id":99},
		{"title":"C","content":"c","user_id":1}
	]`)

	n, err := env.seeder.Run(context.Background(), path)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Index)
	assert.Equal(t, 99, perr.Record.UserID)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, env.count(t), "rows before the failure stay committed")
}

func TestRunDanglingAuthorLookup(t *testing.T) {
	// no foreign key enforcement on this connection
	env := newTestEnv(t, false)
	env.createUser(t, "athena")
	env.seeder.Authors = env.users
	path := writeFixture(t, `[{"title":"A","content":"a","user_id":42}]`)

	_, err := env.seeder.Run(context.Background(), path)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	assert.Zero(t, env.count(t))
}

func TestRunAtomicRollsBack(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	env.seeder.Atomic = true
	path := writeFixture(t, `[
		{"title":"A","content":"a","user_id":1},
		{"title":"B","content":"b","user_id":1},
		{"title":"C","content":"c","user_id":7}
	]`)

	n, err := env.seeder.Run(context.Background(), path)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Index)
	assert.Zero(t, n)
	assert.Zero(t, env.count(t))
}

func TestRunMalformedFixtureInsertsNothing(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	path := writeFixture(t, `[{"title":"A","content":"a","user_id":1}, oops]`)

	_, err := env.seeder.Run(context.Background(), path)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, env.count(t))
}

func TestRunNullFixtureFails(t *testing.T) {
	env := newTestEnv(t, true)
	path := writeFixture(t, `null`)

	n, err := env.seeder.Run(context.Background(), path)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, n)
	assert.Zero(t, env.count(t))
}

func TestRunInvalidRecordInsertsNothing(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	path := writeFixture(t, `[{"title":"A","content":"a","user_id":1}, {"title":"B","user_id":1}]`)

	_, err := env.seeder.Run(context.Background(), path)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)
	assert.Zero(t, env.count(t))
}

type fakeIndexer struct {
	ids []int
	err error
}

func (f *fakeIndexer) IndexPost(_ context.Context, post *models.Post) error {
	f.ids = append(f.ids, post.ID)
	return f.err
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) InvalidateHome(context.Context) error {
	f.calls++
	return nil
}

func TestRunIndexesAndInvalidates(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	idx := &fakeIndexer{err: errors.New("search unavailable")}
	inv := &fakeInvalidator{}
	env.seeder.Indexer = idx
	env.seeder.Cache = inv
	path := writeFixture(t, `[{"title":"A","content":"a","user_id":1},{"title":"B","content":"b","user_id":1}]`)

	n, err := env.seeder.Run(context.Background(), path)
	require.NoError(t, err, "indexing failures do not fail the run")
	assert.Equal(t, 2, n)
	assert.Len(t, idx.ids, 2)
	assert.NotContains(t, idx.ids, 0)
	assert.Equal(t, 1, inv.calls)
}

func TestRunAtomicFailureSkipsSideEffects(t *testing.T) {
	env := newTestEnv(t, true)
	env.createUser(t, "athena")
	idx := &fakeIndexer{}
	inv := &fakeInvalidator{}
	env.seeder.Indexer = idx
	env.seeder.Cache = inv
	env.seeder.Atomic = true

	_, err := env.seeder.Seed(context.Background(), []models.PostRecord{
		{Title: "A", Content: "a", UserID: 1},
		{Title: "B", Content: "b", UserID: 5},
	})
	require.Error(t, err)
	assert.Empty(t, idx.ids)
	assert.Zero(t, inv.calls)
}

func TestDatePostedBounds(t *testing.T) {
	s := New(nil, nil)
	s.Now = func() time.Time { return fixedNow }

	seen := map[time.Duration]bool{}
	for i := 0; i < 5000; i++ {
		offset := fixedNow.Sub(s.DatePosted())
		require.GreaterOrEqual(t, offset, time.Duration(0))
		require.LessOrEqual(t, offset, MaxWeeksBack*7*24*time.Hour)
		seen[offset] = true
	}
	assert.Len(t, seen, MaxWeeksBack+1, "every week in 0..48 is reachable")
}
