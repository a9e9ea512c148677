package services

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	ledgerWriteTimeout = 5 * time.Second
	archiveTimeout     = 2 * time.Second
)

// Executor runs one lifecycle operation against the ledger: replay, key lock,
// gateway call and the final write.
type Executor struct {
	ledger  application.AttemptLedger
	locker  application.KeyLocker
	archive application.ResponseArchive
	metrics application.Metrics
	lock    config.LockConfig
	logger  *slog.Logger
}

func NewExecutor(
	ledger application.AttemptLedger,
	locker application.KeyLocker,
	archive application.ResponseArchive,
	metrics application.Metrics,
	lock config.LockConfig,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		ledger:  ledger,
		locker:  locker,
		archive: archive,
		metrics: metrics,
		lock:    lock,
		logger:  logger,
	}
}

type gatewayCall func(ctx context.Context) (domain.AttemptOutcome, error)

type attemptSpec struct {
	op     string
	params domain.NewAttemptParams
	// reference is stored when the gateway outcome is unknown, so the
	// reconciliation sweep can look the object up later.
	reference string
	data      map[string]any
	call      gatewayCall
}

// Run replays a recorded attempt for key, or executes fn while holding the key lock.
func (e *Executor) Run(
	ctx context.Context,
	key domain.AttemptKey,
	op string,
	fn func(ctx context.Context) (*domain.TransactionResult, error),
) (*domain.TransactionResult, error) {
	if result, done := e.replay(ctx, key, op); done {
		return result, nil
	}

	release, err := e.locker.Acquire(ctx, key.String(), e.lock.TTL)
	if err != nil {
		if errors.Is(err, application.ErrLockHeld) {
			e.logger.Info("attempt in flight, waiting for completion", "key", key.String())
			return e.waitForCompletion(ctx, key)
		}
		e.logger.Error("failed to acquire attempt lock", "key", key.String(), "error", err)
		return nil, application.NewInternalError(err)
	}
	defer release(context.WithoutCancel(ctx))

	// the previous owner may have finished between the first read and the lock
	if result, done := e.replay(ctx, key, op); done {
		return result, nil
	}

	return fn(ctx)
}

func (e *Executor) replay(ctx context.Context, key domain.AttemptKey, op string) (*domain.TransactionResult, bool) {
	existing, err := e.ledger.FindByKey(ctx, key)
	switch {
	case err == nil:
		e.logger.Info("replaying recorded attempt", "key", key.String(), "status", existing.Status)
		return domain.ResultFromAttempt(existing), true
	case errors.Is(err, domain.ErrAttemptNotFound):
		return nil, false
	default:
		e.logger.Error("failed to read attempt", "key", key.String(), "error", err)
		return domain.CanceledResult(key, domain.ErrCodeLedgerReadFailed, readFailedMessage(op)), true
	}
}

func (e *Executor) waitForCompletion(ctx context.Context, key domain.AttemptKey) (*domain.TransactionResult, error) {
	ticker := time.NewTicker(e.lock.PollInterval)
	defer ticker.Stop()

	timeout := time.After(e.lock.WaitTimeout)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, application.NewTimeoutError()
			}
			return nil, ctx.Err()
		case <-timeout:
			return nil, application.NewRequestProcessingError()
		case <-ticker.C:
			existing, err := e.ledger.FindByKey(ctx, key)
			if err == nil {
				return domain.ResultFromAttempt(existing), nil
			}
			if !errors.Is(err, domain.ErrAttemptNotFound) {
				e.logger.Warn("poll for attempt failed", "key", key.String(), "error", err)
			}
		}
	}
}

// priorPayment loads the successful authorize or purchase a follow-up draws on.
// A non-nil result means the read failed and the caller must return it.
func (e *Executor) priorPayment(ctx context.Context, key domain.AttemptKey, op string) (*domain.TransactionAttempt, *domain.TransactionResult) {
	prior, err := e.ledger.FindLatestSuccessful(ctx, key.TenantID, key.KbPaymentID)
	if err == nil {
		return prior, nil
	}
	if errors.Is(err, domain.ErrAttemptNotFound) {
		return nil, nil
	}
	e.logger.Error("failed to load prior payment", "key", key.String(), "error", err)
	return nil, domain.CanceledResult(key, domain.ErrCodeLedgerReadFailed, readFailedMessage(op))
}

// refunded sums the refunds already settled or in flight against the payment.
// A non-nil result means the read failed and the caller must return it.
func (e *Executor) refunded(ctx context.Context, key domain.AttemptKey, op string) (decimal.Decimal, *domain.TransactionResult) {
	attempts, err := e.ledger.ListByPayment(ctx, key.TenantID, key.KbPaymentID)
	if err != nil {
		e.logger.Error("failed to load prior refunds", "key", key.String(), "error", err)
		return decimal.Zero, domain.CanceledResult(key, domain.ErrCodeLedgerReadFailed, readFailedMessage(op))
	}

	total := decimal.Zero
	for _, a := range attempts {
		if a.Type != domain.TypeRefund || a.KbTransactionID == key.KbTransactionID {
			continue
		}
		if a.Status == domain.StatusProcessed || a.Status == domain.StatusPending {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

// record performs the gateway call and writes the attempt.
func (e *Executor) record(ctx context.Context, s attemptSpec) (*domain.TransactionResult, error) {
	attempt, err := domain.NewTransactionAttempt(s.params)
	if err != nil {
		return nil, err
	}
	attempt.MergeAdditionalData(s.data)
	key := attempt.Key()

	outcome, err := s.call(ctx)
	if err != nil {
		e.archiveError(ctx, key, s.op, err)
		if !isOutcomeUnknown(err) {
			return nil, err
		}

		e.logger.Warn("gateway outcome unknown, recording pending attempt",
			"key", key.String(),
			"gateway_reference_id", s.reference,
			"error", err,
		)
		if err := attempt.MarkPending(s.reference, err.Error()); err != nil {
			return nil, err
		}
		return e.persist(ctx, attempt, s.op)
	}

	e.archiveOutcome(ctx, key, s.op, outcome)
	if outcome.CanonicalStatus() == domain.StatusUndefined {
		raw := domain.GatewayStatus(outcome)
		e.metrics.UndefinedStatus(outcomeKind(outcome), raw)
		e.logger.Warn("gateway returned an unmapped status", "key", key.String(), "status", raw)
	}

	if err := attempt.Apply(outcome); err != nil {
		return nil, err
	}
	if attempt.GatewayReferenceID == "" {
		attempt.GatewayReferenceID = s.reference
	}
	return e.persist(ctx, attempt, s.op)
}

// persist writes the attempt even if the caller has gone away: the gateway call
// already happened and its outcome must not be lost.
func (e *Executor) persist(ctx context.Context, attempt *domain.TransactionAttempt, op string) (*domain.TransactionResult, error) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	defer cancel()

	key := attempt.Key()
	inserted, err := e.ledger.InsertIfAbsent(writeCtx, attempt)
	if err != nil {
		e.logger.Error("failed to record attempt after gateway call",
			"key", key.String(),
			"status", attempt.Status,
			"gateway_reference_id", attempt.GatewayReferenceID,
			"error", err,
		)
		e.recordCanceled(writeCtx, attempt, err)

		result := domain.CanceledResult(key, domain.ErrCodeLedgerWriteFailed, writeFailedMessage(op))
		result.GatewayReferenceID = attempt.GatewayReferenceID
		return result, nil
	}

	if !inserted {
		stored, err := e.ledger.FindByKey(writeCtx, key)
		if err != nil {
			e.logger.Error("failed to reload concurrent attempt", "key", key.String(), "error", err)
			return domain.CanceledResult(key, domain.ErrCodeLedgerReadFailed, readFailedMessage(op)), nil
		}
		return domain.ResultFromAttempt(stored), nil
	}

	e.metrics.AttemptRecorded(attempt.Type, attempt.Status)
	return domain.ResultFromAttempt(attempt), nil
}

// recordCanceled keeps a trace of a gateway call whose outcome could not be
// written, so operators can find the gateway reference.
func (e *Executor) recordCanceled(ctx context.Context, attempt *domain.TransactionAttempt, cause error) {
	canceled := *attempt
	canceled.Status = domain.StatusCanceled
	canceled.ErrorCode = domain.ErrCodeLedgerWriteFailed
	canceled.ErrorMessage = cause.Error()
	canceled.AdditionalData = maps.Clone(attempt.AdditionalData)
	canceled.MergeAdditionalData(map[string]any{"gateway_status": string(attempt.Status)})

	if _, err := e.ledger.InsertIfAbsent(ctx, &canceled); err != nil {
		e.logger.Error("failed to record canceled attempt", "key", attempt.Key().String(), "error", err)
		return
	}
	e.metrics.AttemptRecorded(canceled.Type, canceled.Status)
}

func (e *Executor) archiveOutcome(ctx context.Context, key domain.AttemptKey, op string, outcome domain.AttemptOutcome) {
	e.archiveEntry(ctx, application.ArchiveEntry{
		Key:        key,
		Operation:  op,
		Status:     domain.GatewayStatus(outcome),
		Data:       outcome.AdditionalData(),
		ReceivedAt: time.Now(),
	})
}

func (e *Executor) archiveError(ctx context.Context, key domain.AttemptKey, op string, cause error) {
	e.archiveEntry(ctx, application.ArchiveEntry{
		Key:        key,
		Operation:  op,
		Error:      cause.Error(),
		ReceivedAt: time.Now(),
	})
}

func (e *Executor) archiveEntry(ctx context.Context, entry application.ArchiveEntry) {
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := e.archive.Record(archiveCtx, entry); err != nil {
		e.logger.Warn("failed to archive gateway response",
			"key", entry.Key.String(),
			"operation", entry.Operation,
			"error", err,
		)
	}
}

// rejected turns a validation failure into a CANCELED result carrying its message.
func rejected(key domain.AttemptKey, err error) *domain.TransactionResult {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domain.CanceledResult(key, domainErr.Code, domainErr.Message)
	}
	return domain.CanceledResult(key, "", err.Error())
}

func isOutcomeUnknown(err error) bool {
	return domain.IsErrorCode(err, domain.ErrCodeGatewayTransportError) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func outcomeKind(outcome domain.AttemptOutcome) string {
	if _, ok := outcome.(domain.RefundOutcome); ok {
		return "refund"
	}
	return "payment"
}

func paymentOutcome(o domain.PaymentOutcome, err error) (domain.AttemptOutcome, error) {
	if err != nil {
		return nil, err
	}
	return o, nil
}

func refundOutcome(o domain.RefundOutcome, err error) (domain.AttemptOutcome, error) {
	if err != nil {
		return nil, err
	}
	return o, nil
}
