package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marlogas/caja-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day10 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestDispatchRepository_InsertEList(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	repo := NewDispatchRepository(lima).(*dispatchRepository)
	// 03:00 UTC do dia 11 é noite do dia 10 em Lima
	repo.now = func() time.Time { return time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC) }

	var published []domain.Dispatch
	unsubscribe := repo.Subscribe(func(d domain.Dispatch) { published = append(published, d) })

	inserted, err := repo.Insert(context.Background(), domain.Dispatch{
		Client:        "Ana",
		Price:         decimal.NewFromInt(45),
		PaymentMethod: domain.PaymentWallet,
		Gas:           1,
	})
	require.NoError(t, err)
	assert.Len(t, inserted.ID, 12)
	assert.Equal(t, "2025-03-10", domain.FormatDate(inserted.BusinessDate))
	require.Len(t, published, 1)
	assert.Equal(t, inserted.ID, published[0].ID)

	list, err := repo.ListByDate(context.Background(), day10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = repo.ListByDate(context.Background(), day10.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, list)

	unsubscribe()
	_, err = repo.Insert(context.Background(), domain.Dispatch{Client: "Beto", Water: 1})
	require.NoError(t, err)
	assert.Len(t, published, 1)
}

func TestDispatchRepository_ListByRange(t *testing.T) {
	repo := NewDispatchRepository(time.UTC,
		domain.Dispatch{ID: "a", BusinessDate: day10.AddDate(0, 0, -1), CreatedAt: day10.Add(-time.Hour)},
		domain.Dispatch{ID: "b", BusinessDate: day10, CreatedAt: day10.Add(time.Hour)},
		domain.Dispatch{ID: "c", BusinessDate: day10, CreatedAt: day10.Add(2 * time.Hour)},
		domain.Dispatch{ID: "d", BusinessDate: day10.AddDate(0, 0, 1), CreatedAt: day10.Add(25 * time.Hour)},
	)

	list, err := repo.ListByRange(context.Background(), day10.AddDate(0, 0, -1), day10)
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	list, err = repo.ListByRange(context.Background(), day10, day10.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDispatchRepository_ContextoCancelado(t *testing.T) {
	repo := NewDispatchRepository(time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListByDate(ctx, day10)
	assert.True(t, domain.IsStoreUnavailable(err))
}

func TestDispatchRepository_HandleNotification(t *testing.T) {
	repo := NewDispatchRepository(time.UTC)

	var got []domain.Dispatch
	repo.Subscribe(func(d domain.Dispatch) { got = append(got, d) })

	repo.HandleNotification("XYZ123abc456")
	repo.HandleNotification("")

	require.Len(t, got, 2)
	assert.Equal(t, "XYZ123abc456", got[0].ID)
	assert.Empty(t, got[1].ID)
}

func TestRegisterRepository_UmaCajaAbertaPorData(t *testing.T) {
	repo := NewRegisterRepository()
	ctx := context.Background()

	first, err := repo.Insert(ctx, domain.RegisterSession{BusinessDate: day10, OpeningBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, domain.RegisterOpen, first.Status)

	_, err = repo.Insert(ctx, domain.RegisterSession{BusinessDate: day10})
	assert.True(t, domain.IsConflict(err))

	other, err := repo.Insert(ctx, domain.RegisterSession{BusinessDate: day10.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	found, err := repo.FindOpenByDate(ctx, day10.Add(15*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestRegisterRepository_Update(t *testing.T) {
	repo := NewRegisterRepository()
	ctx := context.Background()

	session, err := repo.Insert(ctx, domain.RegisterSession{BusinessDate: day10, OpeningBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	update := domain.RegisterUpdate{
		Status: domain.RegisterClosed,
		Snapshot: domain.ClosingSnapshot{
			CashTotal:   decimal.NewFromInt(70),
			WalletTotal: decimal.NewFromInt(30),
			DrawerTotal: decimal.NewFromInt(170),
		},
		ClosedAt: day10.Add(22 * time.Hour),
	}

	closed, err := repo.Update(ctx, session.ID, update)
	require.NoError(t, err)
	assert.Equal(t, domain.RegisterClosed, closed.Status)
	require.NotNil(t, closed.Snapshot)

	// a cópia devolvida não altera o estado guardado
	closed.Snapshot.DrawerTotal = decimal.Zero
	stored, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(170).Equal(stored.Snapshot.DrawerTotal))

	_, err = repo.Update(ctx, session.ID, update)
	assert.True(t, domain.IsState(err))

	_, err = repo.Update(ctx, "NAOEXISTE", update)
	assert.True(t, domain.IsNotFound(err))

	open, err := repo.FindOpenByDate(ctx, day10)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestRegisterRepository_InsertConcorrente(t *testing.T) {
	repo := NewRegisterRepository()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Insert(context.Background(), domain.RegisterSession{BusinessDate: day10}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &domain.User{Username: "caja", Name: "Caja", Active: true})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	_, err = repo.CreateUser(ctx, &domain.User{Username: "caja"})
	assert.True(t, domain.IsConflict(err))

	found, err := repo.GetUserByUsername(ctx, "caja")
	require.NoError(t, err)
	assert.Equal(t, "Caja", found.Name)

	missing, err := repo.GetUserByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
