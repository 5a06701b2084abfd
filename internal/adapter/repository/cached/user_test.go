package cached

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"usuarios-api/internal/adapter/cache"
	domain "usuarios-api/internal/domain/user"
	pkgerrors "usuarios-api/pkg/errors"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func setup(t *testing.T) (*CachedUserRepository, *mockRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	dbRepo := new(mockRepository)
	repo := NewCachedUserRepository(dbRepo, cache.NewRedisUserCache(client, time.Minute, log), log)
	return repo, dbRepo, mr
}

func TestGetByID_MissThenHit(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ana", Email: "ana@x.com"}, nil).Once()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", first.Email)
	assert.True(t, mr.Exists("usuario:1"))

	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)

	dbRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetByID_NotFoundIsNotCached(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, int64(9)).Return(nil, pkgerrors.ErrUserNotFound)

	_, err := repo.GetByID(ctx, 9)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	assert.False(t, mr.Exists("usuario:9"))
}

func TestGetByID_CacheDownFallsBackToDB(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()
	mr.Close()

	dbRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Ana", Email: "ana@x.com"}, nil)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestGetByID_ConcurrentMissesShareQuery(t *testing.T) {
	repo, dbRepo, _ := setup(t)
	ctx := context.Background()

	release := make(chan struct{})
	dbRepo.On("GetByID", ctx, int64(5)).
		Run(func(mock.Arguments) { <-release }).
		Return(&domain.User{ID: 5, Name: "Eva", Email: "eva@x.com"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.GetByID(ctx, 5)
			assert.NoError(t, err)
			assert.Equal(t, int64(5), u.ID)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	dbRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, Name: "Bia", Email: "bia@x.com"}, nil).Once()
	dbRepo.On("Delete", ctx, int64(2)).Return(&domain.User{ID: 2, Name: "Bia", Email: "bia@x.com"}, nil)

	_, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.True(t, mr.Exists("usuario:2"))

	deleted, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted.ID)
	assert.False(t, mr.Exists("usuario:2"))

	dbRepo.On("GetByID", ctx, int64(2)).Return(nil, pkgerrors.ErrUserNotFound)
	_, err = repo.GetByID(ctx, 2)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
}

func TestDelete_NotFoundKeepsCacheUntouched(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("usuario:4", `{"ID":4}`))

	dbRepo.On("Delete", ctx, int64(4)).Return(nil, pkgerrors.ErrUserNotFound)

	_, err := repo.Delete(ctx, 4)
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	assert.True(t, mr.Exists("usuario:4"))
}

func TestCreateAndListDelegate(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	in := &domain.User{Name: "Ana", Email: "ana@x.com"}
	dbRepo.On("Create", ctx, in).Return(&domain.User{ID: 1, Name: "Ana", Email: "ana@x.com"}, nil)
	dbRepo.On("List", ctx).Return([]domain.User{{ID: 1}}, nil)

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Empty(t, mr.Keys(), "creates and lists do not populate the cache")
}
