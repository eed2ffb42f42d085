package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
	"github.com/Ajay05krish/BankingApplication/internal/repository"
	"github.com/Ajay05krish/BankingApplication/internal/testutil"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	pan := "ABCDE1234F"
	address := "12 MG Road, Bengaluru"
	account := &domain.Account{
		ID:            uuid.New(),
		HolderName:    "Asha",
		AccountType:   domain.AccountTypeCurrent,
		Balance:       10000,
		PanCardNumber: &pan,
		Address:       &address,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.HolderName, got.HolderName)
	assert.Equal(t, domain.AccountTypeCurrent, got.AccountType)
	assert.Equal(t, int64(10000), got.Balance)
	require.NotNil(t, got.PanCardNumber)
	assert.Equal(t, pan, *got.PanCardNumber)
	require.NotNil(t, got.Address)
	assert.Equal(t, address, *got.Address)
}

func TestAccountRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	testutil.SeedTestAccount(t, db, "First", 100)
	testutil.SeedTestAccount(t, db, "Second", 200)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewAccountRepository(db)

	account := testutil.SeedTestAccount(t, db, "Asha", 10000)

	require.NoError(t, repo.UpdateBalance(ctx, account.ID, 6000))
	assert.Equal(t, int64(6000), testutil.GetAccountBalance(t, db, account.ID))

	err := repo.UpdateBalance(ctx, uuid.New(), 100)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDetailRepository_InsertionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewDetailRepository(db)

	account := testutil.SeedTestAccount(t, db, "Asha", 10000)
	other := testutil.SeedTestAccount(t, db, "Ravi", 0)

	lines := []struct {
		detailType domain.DetailType
		amount     int64
	}{
		{domain.DetailTypeDeposit, 5000},
		{domain.DetailTypeWithdraw, 2000},
		{domain.DetailTypeDeposit, 100},
	}
	for _, l := range lines {
		require.NoError(t, repo.Create(ctx, &domain.TransactionDetail{
			AccountNumber:   account.ID,
			TransactionType: l.detailType,
			Amount:          l.amount,
			TransactionDate: time.Now().UTC(),
			Status:          "Success",
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.TransactionDetail{
		AccountNumber:   other.ID,
		TransactionType: domain.DetailTypeDeposit,
		Amount:          999,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	}))

	details, err := repo.GetByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, details, 3)

	for i, l := range lines {
		assert.Equal(t, l.detailType, details[i].TransactionType)
		assert.Equal(t, l.amount, details[i].Amount)
	}
	assert.Less(t, details[0].ID, details[1].ID)
	assert.Less(t, details[1].ID, details[2].ID)
}

func TestIdempotencyRepository_SetGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewIdempotencyRepository(db)

	entry := &repository.IdempotencyCacheEntry{
		Key:          uuid.NewString(),
		RequestHash:  "abc123",
		StatusCode:   200,
		ResponseBody: []byte(`{"success":true}`),
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Set(ctx, entry))

	got, err := repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.RequestHash, got.RequestHash)
	assert.Equal(t, entry.StatusCode, got.StatusCode)
	assert.Equal(t, entry.ResponseBody, got.ResponseBody)

	// First write wins; a conflicting Set is silently ignored.
	dupe := *entry
	dupe.StatusCode = 500
	require.NoError(t, repo.Set(ctx, &dupe))
	got, err = repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	assert.Equal(t, 200, got.StatusCode)
}

func TestIdempotencyRepository_ExpiredEntriesInvisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewIdempotencyRepository(db)

	entry := &repository.IdempotencyCacheEntry{
		Key:          uuid.NewString(),
		RequestHash:  "abc123",
		StatusCode:   200,
		ResponseBody: []byte(`{}`),
		CreatedAt:    time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.Set(ctx, entry))

	got, err := repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
