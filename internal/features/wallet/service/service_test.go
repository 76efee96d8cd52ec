package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "recycle-rewards-backend/internal/common/errors"
	usermodels "recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/wallet/models"
)

type mockRedemptionRepo struct {
	mock.Mock
}

func (m *mockRedemptionRepo) Create(ctx context.Context, request *models.RedemptionRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockRedemptionRepo) GetByID(ctx context.Context, id string) (*models.RedemptionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionRequest), args.Error(1)
}

func (m *mockRedemptionRepo) ListByUser(ctx context.Context, userID string) ([]*models.RedemptionRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RedemptionRequest), args.Error(1)
}

// newTestWalletService shortens the timers so the delayed-reset and
// async-submission paths finish within a test run.
func newTestWalletService(repo *mockRedemptionRepo) *walletService {
	return &walletService{
		repo:          repo,
		sessions:      newSessionStore(),
		resetDelay:    20 * time.Millisecond,
		submitTimeout: time.Second,
	}
}

func testUser(balance int64) *usermodels.User {
	return &usermodels.User{
		ID:           "user-1",
		Name:         "Ada",
		Role:         usermodels.RoleResident,
		ZointBalance: balance,
	}
}

func assertErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestOpen_AlwaysLandsOnCleanMenu(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()

	view, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, view.State)
	assert.Empty(t, view.Kind)
	assert.Empty(t, view.Amount)
	assert.Empty(t, view.Error)
	assert.Nil(t, view.Request)
}

func TestSession_WithoutOpenIsNotFound(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))

	_, err := svc.Session(context.Background(), "user-1")

	assertErrorCode(t, err, apperrors.ErrCodeSessionNotFound)
}

func TestSelectKind_CashMovesToInput(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()
	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)

	view, err := svc.SelectKind(ctx, "user-1", models.KindCash)

	require.NoError(t, err)
	assert.Equal(t, models.StateInput, view.State)
	assert.Equal(t, models.KindCash, view.Kind)
}

func TestSelectKind_GoodsIsInert(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()
	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)

	view, err := svc.SelectKind(ctx, "user-1", models.KindGoods)

	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, view.State)
	assert.Empty(t, view.Kind)
}

func TestSelectKind_RejectedOutsideMenu(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()
	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, "user-1", models.KindCharity)
	require.NoError(t, err)

	_, err = svc.SelectKind(ctx, "user-1", models.KindCash)

	assertErrorCode(t, err, apperrors.ErrCodeConflict)
}

func TestConfirm_ValidationLadder(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		balance int64
		wantErr string
	}{
		{name: "not a number", amount: "abc", balance: 10_000, wantErr: msgInvalidAmount},
		{name: "empty", amount: "", balance: 10_000, wantErr: msgInvalidAmount},
		{name: "zero", amount: "0", balance: 10_000, wantErr: msgInvalidAmount},
		{name: "negative", amount: "-50", balance: 10_000, wantErr: msgInvalidAmount},
		{name: "over balance", amount: "20000", balance: 10_000, wantErr: msgInsufficientBalance},
		{name: "under minimum", amount: "499", balance: 10_000, wantErr: msgBelowMinimum},
		// Balance is checked before the minimum, so a small amount over a
		// smaller balance reads as insufficient, not below minimum.
		{name: "under minimum and over balance", amount: "400", balance: 300, wantErr: msgInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			repo := new(mockRedemptionRepo)
			svc := newTestWalletService(repo)
			ctx := context.Background()
			user := testUser(tt.balance)

			_, err := svc.Open(ctx, user.ID)
			require.NoError(t, err)
			_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
			require.NoError(t, err)
			_, err = svc.SetAmount(ctx, user.ID, tt.amount)
			require.NoError(t, err)

			// ACT
			view, err := svc.Confirm(ctx, user)

			// ASSERT: recoverable, session stays on input, nothing persisted
			require.NoError(t, err)
			assert.Equal(t, models.StateInput, view.State)
			assert.Equal(t, tt.wantErr, view.Error)
			assert.Equal(t, tt.amount, view.Amount)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestConfirm_SubmitsAndReachesSuccess(t *testing.T) {
	// ARRANGE
	repo := new(mockRedemptionRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.RedemptionRequest")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.RedemptionRequest).ID = "red-1"
		}).
		Return(nil)

	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(1_000)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "750")
	require.NoError(t, err)

	// ACT
	view, err := svc.Confirm(ctx, user)

	// ASSERT: processing immediately, success once the submission lands
	require.NoError(t, err)
	assert.Equal(t, models.StateProcessing, view.State)
	assert.Empty(t, view.Error)

	require.Eventually(t, func() bool {
		v, err := svc.Session(ctx, user.ID)
		return err == nil && v.State == models.StateSuccess
	}, time.Second, 5*time.Millisecond)

	final, err := svc.Session(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, final.Request)
	assert.Equal(t, "red-1", final.Request.ID)
	assert.Equal(t, models.KindCash, final.Request.Kind)
	assert.Equal(t, int64(750), final.Request.Amount)
	assert.Equal(t, models.StatusPending, final.Request.Status)
	assert.Equal(t, time.Now().Format(models.DateLayout), final.Request.Date)
	repo.AssertExpectations(t)
}

func TestConfirm_NormalizesNonCashKindsToCharity(t *testing.T) {
	repo := new(mockRedemptionRepo)
	var submitted *models.RedemptionRequest
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.RedemptionRequest")).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(*models.RedemptionRequest)
		}).
		Return(nil)

	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(1_000)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCharity)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "500")
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		v, err := svc.Session(ctx, user.ID)
		return err == nil && v.State == models.StateSuccess
	}, time.Second, 5*time.Millisecond)

	require.NotNil(t, submitted)
	assert.Equal(t, models.KindCharity, submitted.Kind)
}

func TestConfirm_RejectedWhileInFlight(t *testing.T) {
	// ARRANGE: a repository that holds the submission open
	release := make(chan struct{})
	repo := new(mockRedemptionRepo)
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(1_000)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "600")
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user)
	require.NoError(t, err)

	// ACT: confirm again while processing
	_, err = svc.Confirm(ctx, user)

	// ASSERT
	assertErrorCode(t, err, apperrors.ErrCodeConflict)

	close(release)
	require.Eventually(t, func() bool {
		v, err := svc.Session(ctx, user.ID)
		return err == nil && v.State == models.StateSuccess
	}, time.Second, 5*time.Millisecond)
}

func TestConfirm_FailureIsRetryable(t *testing.T) {
	// ARRANGE
	repo := new(mockRedemptionRepo)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("redis: connection refused"))

	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(1_000)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "800")
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		v, err := svc.Session(ctx, user.ID)
		return err == nil && v.State == models.StateFailed
	}, time.Second, 5*time.Millisecond)

	failed, err := svc.Session(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, msgSubmissionFailed, failed.Error)

	// ACT: retry returns to input with the amount intact
	view, err := svc.Retry(ctx, user.ID)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, models.StateInput, view.State)
	assert.Equal(t, "800", view.Amount)
	assert.Empty(t, view.Error)
}

func TestRetry_OnlyFromFailed(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()
	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.Retry(ctx, "user-1")

	assertErrorCode(t, err, apperrors.ErrCodeConflict)
}

func TestUseMax_FillsExactBalanceAndClearsError(t *testing.T) {
	// ARRANGE: drive the session into an inline error first
	repo := new(mockRedemptionRepo)
	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(12_345)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "nope")
	require.NoError(t, err)
	view, err := svc.Confirm(ctx, user)
	require.NoError(t, err)
	require.Equal(t, msgInvalidAmount, view.Error)

	// ACT
	view, err = svc.UseMax(ctx, user)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "12345", view.Amount)
	assert.Empty(t, view.Error)
	assert.Equal(t, models.StateInput, view.State)
}

func TestClose_ResetsAfterDelay(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()

	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, "user-1", models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, "user-1", "750")
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, "user-1"))

	// Still intact right after close; gone once the delay elapses.
	view, err := svc.Session(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateInput, view.State)
	assert.Equal(t, "750", view.Amount)

	require.Eventually(t, func() bool {
		v, err := svc.Session(ctx, "user-1")
		return err == nil && v.State == models.StateMenu && v.Amount == ""
	}, time.Second, 5*time.Millisecond)
}

func TestClose_ReopenCancelsPendingReset(t *testing.T) {
	svc := newTestWalletService(new(mockRedemptionRepo))
	ctx := context.Background()

	_, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, "user-1", models.KindCash)
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx, "user-1"))

	// Reopen before the timer fires: clean menu immediately.
	view, err := svc.Open(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, view.State)

	// Progress again, then outlive the cancelled timer. The old reset
	// must not fire underneath the new session.
	_, err = svc.SelectKind(ctx, "user-1", models.KindCharity)
	require.NoError(t, err)
	time.Sleep(3 * svc.resetDelay)

	after, err := svc.Session(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateInput, after.State)
	assert.Equal(t, models.KindCharity, after.Kind)
}

func TestSubmit_ResolutionAfterResetIsDropped(t *testing.T) {
	// ARRANGE: hold the submission open, reset the session underneath it
	release := make(chan struct{})
	repo := new(mockRedemptionRepo)
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	svc := newTestWalletService(repo)
	ctx := context.Background()
	user := testUser(1_000)

	_, err := svc.Open(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.SelectKind(ctx, user.ID, models.KindCash)
	require.NoError(t, err)
	_, err = svc.SetAmount(ctx, user.ID, "600")
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user)
	require.NoError(t, err)

	_, err = svc.Open(ctx, user.ID) // reset while in flight
	require.NoError(t, err)

	// ACT: let the stale submission resolve
	close(release)
	time.Sleep(50 * time.Millisecond)

	// ASSERT: the fresh session is untouched
	view, err := svc.Session(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateMenu, view.State)
	assert.Nil(t, view.Request)
	assert.Empty(t, view.Error)
}

func TestListRedemptions_WrapsStorageErrors(t *testing.T) {
	repo := new(mockRedemptionRepo)
	repo.On("ListByUser", mock.Anything, "user-1").
		Return(nil, errors.New("redis: connection refused"))

	svc := newTestWalletService(repo)

	_, err := svc.ListRedemptions(context.Background(), "user-1")

	assertErrorCode(t, err, apperrors.ErrCodeStorage)
}

func TestSessionStore_SweepSkipsProcessing(t *testing.T) {
	store := newSessionStore()

	idle := store.getOrCreate("idle-user")
	idle.mu.Lock()
	idle.touchedAt = time.Now().Add(-time.Hour)
	idle.mu.Unlock()

	busy := store.getOrCreate("busy-user")
	busy.mu.Lock()
	busy.touchedAt = time.Now().Add(-time.Hour)
	busy.state = models.StateProcessing
	busy.mu.Unlock()

	removed := store.sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, ok := store.get("idle-user")
	assert.False(t, ok)
	_, ok = store.get("busy-user")
	assert.True(t, ok)
}
