package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	apperrors "recycle-rewards-backend/internal/common/errors"
	"recycle-rewards-backend/internal/common/logger"
	usermodels "recycle-rewards-backend/internal/features/user/models"
	"recycle-rewards-backend/internal/features/wallet/models"
	"recycle-rewards-backend/internal/features/wallet/repository"
)

// WalletService drives the redemption wizard: menu -> input -> processing ->
// success, with failed as the retryable branch of a rejected submission.
// One session per user; all transient fields are owned by that session and
// cleared on reopen.
type WalletService interface {
	Open(ctx context.Context, userID string) (*models.SessionView, error)
	Session(ctx context.Context, userID string) (*models.SessionView, error)
	SelectKind(ctx context.Context, userID string, kind models.RedemptionKind) (*models.SessionView, error)
	SetAmount(ctx context.Context, userID, amount string) (*models.SessionView, error)
	UseMax(ctx context.Context, user *usermodels.User) (*models.SessionView, error)
	Confirm(ctx context.Context, user *usermodels.User) (*models.SessionView, error)
	Retry(ctx context.Context, userID string) (*models.SessionView, error)
	Close(ctx context.Context, userID string) error
	ListRedemptions(ctx context.Context, userID string) ([]*models.RedemptionRequest, error)
	StartSweeper(ctx context.Context)
}

type walletService struct {
	repo     repository.RedemptionRepository
	sessions *sessionStore

	// Overridable in tests; production values come from constants.go.
	resetDelay    time.Duration
	submitTimeout time.Duration
}

func NewWalletService(repo repository.RedemptionRepository) WalletService {
	return &walletService{
		repo:          repo,
		sessions:      newSessionStore(),
		resetDelay:    closeResetDelay,
		submitTimeout: submitTimeout,
	}
}

// Open starts (or restarts) the user's wallet session. Opening always lands
// on a clean menu: any pending delayed reset is cancelled and the reset is
// applied immediately instead.
func (svc *walletService) Open(ctx context.Context, userID string) (*models.SessionView, error) {
	s := svc.sessions.getOrCreate(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.viewLocked(), nil
}

func (svc *walletService) Session(ctx context.Context, userID string) (*models.SessionView, error) {
	s, ok := svc.sessions.get(userID)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "No open wallet session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()
	return s.viewLocked(), nil
}

// SelectKind moves menu -> input. The goods option is shown but permanently
// disabled; selecting it is inert and leaves the session on the menu.
func (svc *walletService) SelectKind(ctx context.Context, userID string, kind models.RedemptionKind) (*models.SessionView, error) {
	s, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()

	switch kind {
	case models.KindCash, models.KindCharity:
	case models.KindGoods:
		return s.viewLocked(), nil
	default:
		return nil, apperrors.NewValidationError("kind", "unknown redemption kind")
	}

	if s.state != models.StateMenu {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Redemption kind can only be chosen from the menu").
			WithDetail("state", s.state)
	}

	s.kind = kind
	s.state = models.StateInput
	return s.viewLocked(), nil
}

// SetAmount stores the raw field value. No validation happens here; the
// ladder runs on confirm.
func (svc *walletService) SetAmount(ctx context.Context, userID, amount string) (*models.SessionView, error) {
	s, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()

	if s.state != models.StateInput {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Amount can only be edited on the input step").
			WithDetail("state", s.state)
	}

	s.amount = amount
	return s.viewLocked(), nil
}

// UseMax fills the amount with the exact current balance and clears any
// prior error. It does not validate; confirm still runs the full ladder.
func (svc *walletService) UseMax(ctx context.Context, user *usermodels.User) (*models.SessionView, error) {
	s, err := svc.session(user.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()

	if s.state != models.StateInput {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Amount can only be edited on the input step").
			WithDetail("state", s.state)
	}

	s.amount = strconv.FormatInt(user.ZointBalance, 10)
	s.inputError = ""
	return s.viewLocked(), nil
}

// Confirm validates the amount and, when it passes, builds the redemption
// request and submits it asynchronously. While the submission is in flight
// the session sits in processing and confirm cannot re-enter.
func (svc *walletService) Confirm(ctx context.Context, user *usermodels.User) (*models.SessionView, error) {
	s, err := svc.session(user.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()

	if s.state == models.StateProcessing {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "A submission is already in flight")
	}
	if s.state != models.StateInput {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Nothing to confirm in this state").
			WithDetail("state", s.state)
	}

	amount, ok := parseAmount(s.amount)
	switch {
	case !ok || amount <= 0:
		s.inputError = msgInvalidAmount
		return s.viewLocked(), nil
	case amount > user.ZointBalance:
		s.inputError = msgInsufficientBalance
		return s.viewLocked(), nil
	case amount < models.MinRedemptionZoints:
		s.inputError = msgBelowMinimum
		return s.viewLocked(), nil
	}

	request := &models.RedemptionRequest{
		ID:       "", // assigned by the repository on persist
		UserID:   user.ID,
		UserName: user.Name,
		Kind:     s.kind.Normalize(),
		Amount:   amount,
		Status:   models.StatusPending,
		Date:     time.Now().Format(models.DateLayout),
	}

	s.inputError = ""
	s.state = models.StateProcessing
	go svc.submit(s, s.epoch, request)

	return s.viewLocked(), nil
}

// submit persists the request off the request path. The epoch captured at
// spawn time detects sessions that were reset while the call was in
// flight; their resolution must not touch the fresh state.
func (svc *walletService) submit(s *session, epoch uint64, request *models.RedemptionRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), svc.submitTimeout)
	defer cancel()

	err := svc.repo.Create(ctx, request)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		logger.Debug().
			Str("user_id", request.UserID).
			Msg("Redemption resolution arrived after session reset, dropping")
		return
	}

	if err != nil {
		logger.Error().
			Err(err).
			Str("user_id", request.UserID).
			Int64("amount", request.Amount).
			Msg("Redemption submission failed")
		s.state = models.StateFailed
		s.inputError = msgSubmissionFailed
		return
	}

	s.state = models.StateSuccess
	s.request = request
	logger.Info().
		Str("user_id", request.UserID).
		Str("redemption_id", request.ID).
		Str("kind", string(request.Kind)).
		Int64("amount", request.Amount).
		Msg("Redemption request submitted")
}

// Retry returns a failed session to the input step with the amount
// preserved so the user can resubmit.
func (svc *walletService) Retry(ctx context.Context, userID string) (*models.SessionView, error) {
	s, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()

	if s.state != models.StateFailed {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "Only a failed submission can be retried").
			WithDetail("state", s.state)
	}

	s.state = models.StateInput
	s.inputError = ""
	return s.viewLocked(), nil
}

// Close schedules the delayed reset back to the menu. The delay keeps the
// client's close transition from being interrupted; reopening before the
// timer fires cancels it and resets immediately instead.
func (svc *walletService) Close(ctx context.Context, userID string) error {
	s, ok := svc.sessions.get(userID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetTimer = time.AfterFunc(svc.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resetLocked()
	})
	return nil
}

func (svc *walletService) ListRedemptions(ctx context.Context, userID string) ([]*models.RedemptionRequest, error) {
	requests, err := svc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorageError("list redemptions", err)
	}
	return requests, nil
}

// StartSweeper drops abandoned sessions in the background until ctx ends.
func (svc *walletService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := svc.sessions.sweep(sessionIdleTTL); removed > 0 {
					logger.Debug().Int("removed", removed).Msg("Swept idle wallet sessions")
				}
			}
		}
	}()
}

func (svc *walletService) session(userID string) (*session, error) {
	s, ok := svc.sessions.get(userID)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "No open wallet session")
	}
	return s, nil
}

func parseAmount(raw string) (int64, bool) {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
