package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fondeo/entity"
	"fondeo/lib/sl"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Messenger delivers approval controls and confirmations over an
// outbound messaging channel. Calls are best-effort: implementations
// bound them with short timeouts and the ledger never fails or rolls
// back because of them.
type Messenger interface {
	AnnounceTopUp(t *entity.TopUpRequest, account *entity.Account) (*entity.MessageRef, error)
	RetractControl(ref *entity.MessageRef) error
}

// MessageRefs caches pointers to rendered approve/reject controls so
// they can be retracted after resolution. Entries expire on their own;
// a miss is not an error condition the ledger cares about.
type MessageRefs interface {
	Set(ctx context.Context, ref *entity.MessageRef) error
	Get(ctx context.Context, topUpID int64) (*entity.MessageRef, error)
	Del(ctx context.Context, topUpID int64) error
}

// Journal records ledger events for audit, best-effort.
type Journal interface {
	Record(ctx context.Context, event string, doc interface{}) error
}

// PaymentLinker mints a hosted checkout link for a card top-up.
type PaymentLinker interface {
	TopUpLink(ctx context.Context, t *entity.TopUpRequest) (string, error)
}

type Config struct {
	Secret        string
	ProjectFee    decimal.Decimal
	ReferralBonus decimal.Decimal
}

// Ledger owns every balance mutation on the platform. The three
// approval channels (admin action, signed link, bot callback) and the
// card-payment webhook all converge on ApproveTopUp; adapters only
// translate transport input into a request id and an authorization
// proof.
type Ledger struct {
	store    Store
	signer   *TokenSigner
	conf     Config
	msg      Messenger
	refs     MessageRefs
	journal  Journal
	payments PaymentLinker
	log      *slog.Logger
}

func New(store Store, conf Config, log *slog.Logger) *Ledger {
	if store == nil {
		panic("ledger store is nil")
	}
	return &Ledger{
		store:  store,
		signer: NewTokenSigner(conf.Secret),
		conf:   conf,
		log:    log.With(sl.Module("ledger")),
	}
}

func (l *Ledger) SetMessenger(m Messenger)         { l.msg = m }
func (l *Ledger) SetMessageRefs(r MessageRefs)     { l.refs = r }
func (l *Ledger) SetJournal(j Journal)             { l.journal = j }
func (l *Ledger) SetPaymentLinker(p PaymentLinker) { l.payments = p }

// RequestTopUp creates a pending top-up for the account. Cashback and
// the promo bonus are computed and frozen here; eligibility for the
// bonus is checked again at approval time.
func (l *Ledger) RequestTopUp(ctx context.Context, accountID int64, p *entity.TopUpParams) (*entity.TopUpTicket, error) {
	if !p.Amount.IsPositive() {
		return nil, entity.ErrInvalidAmount
	}
	account, err := l.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var promo *entity.PromoCode
	bonus := decimal.Zero
	if p.PromoCode != "" {
		promo, err = l.store.PromoByCode(ctx, p.PromoCode)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrUnknownPromo
		}
		if err != nil {
			return nil, fmt.Errorf("lookup promo: %w", err)
		}
		if !promo.IsActive {
			return nil, entity.ErrUnknownPromo
		}
		used, err := l.store.PromoUsed(ctx, accountID, promo.ID)
		if err != nil {
			return nil, fmt.Errorf("check promo usage: %w", err)
		}
		if used {
			return nil, entity.ErrPromoAlreadyUsed
		}
		bonus = PromoBonus(p.Amount, promo.Percent)
	}

	t := &entity.TopUpRequest{
		Ref:        uuid.NewString(),
		AccountID:  accountID,
		Amount:     round2(p.Amount),
		Cashback:   Cashback(p.Amount),
		PromoBonus: bonus,
		Receipt:    p.Receipt,
		Status:     entity.TopUpPending,
	}
	if promo != nil {
		t.PromoID = promo.ID
		t.PromoCode = promo.Code
	}

	err = l.store.InTx(ctx, func(s Store) error {
		if err := s.CreateTopUp(ctx, t); err != nil {
			return fmt.Errorf("create topup: %w", err)
		}
		return s.CreateNotification(ctx, &entity.Notification{
			AccountID: accountID,
			Kind:      entity.NotifyInfo,
			Title:     "Top-up requested",
			Message: fmt.Sprintf("Top-up of %s is pending approval. Once approved, +%s and +%s cashback will be credited.",
				t.Amount.StringFixed(2), t.Amount.StringFixed(2), t.Cashback.StringFixed(2)),
		})
	})
	if err != nil {
		return nil, err
	}

	ticket := &entity.TopUpTicket{
		TransactionID: t.ID,
		Status:        t.Status,
		Amount:        t.Amount,
		Cashback:      t.Cashback,
		PromoBonus:    t.PromoBonus,
		Token:         l.signer.Sign(t.ID, accountID),
	}

	if p.Card {
		if l.payments == nil {
			return nil, fmt.Errorf("card payments not available")
		}
		link, err := l.payments.TopUpLink(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("payment link: %w", err)
		}
		ticket.PaymentLink = link
	}

	l.announce(ctx, t, account)
	return ticket, nil
}

// announce posts the approve/reject control to the admin channel and
// caches its location for later retraction. Failures are logged only.
func (l *Ledger) announce(ctx context.Context, t *entity.TopUpRequest, account *entity.Account) {
	if l.msg == nil {
		return
	}
	ref, err := l.msg.AnnounceTopUp(t, account)
	if err != nil {
		l.log.Warn("announce topup", slog.Int64("topup_id", t.ID), sl.Err(err))
		return
	}
	if ref == nil || l.refs == nil {
		return
	}
	if err = l.refs.Set(ctx, ref); err != nil {
		l.log.Warn("cache message ref", slog.Int64("topup_id", t.ID), sl.Err(err))
	}
}

// ErrAlreadyApplied is used internally to flag an idempotent repeat; it
// never escapes ApproveTopUp, which reports it as applied=false.
var errAlreadyApplied = errors.New("already applied")

// ApproveTopUp credits amount + cashback + still-eligible promo bonus
// to the account, flips the request to approved and records the promo
// usage, all as one atomic unit. Calling it again for the same request,
// from any channel and in any interleaving, is a no-op that reports
// applied=false.
func (l *Ledger) ApproveTopUp(ctx context.Context, requestID int64, via entity.ApprovalVia) (bool, error) {
	var (
		topup *entity.TopUpRequest
		total decimal.Decimal
	)
	err := l.store.InTx(ctx, func(s Store) error {
		t, err := s.TopUpForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if t.IsApproved() {
			return errAlreadyApplied
		}
		account, err := s.AccountForUpdate(ctx, t.AccountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		// Promo eligibility is re-checked here, not trusted from request
		// time: of two pending requests citing the same code only the
		// first approval grants the bonus.
		bonus := decimal.Zero
		if t.PromoID != 0 {
			used, err := s.PromoUsed(ctx, t.AccountID, t.PromoID)
			if err != nil {
				return fmt.Errorf("check promo usage: %w", err)
			}
			if !used {
				bonus = t.PromoBonus
			}
		}

		total = round2(t.Amount.Add(t.Cashback).Add(bonus))
		if err = s.UpdateBalance(ctx, account.ID, round2(account.Balance.Add(total))); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		now := time.Now().UTC()
		if err = s.MarkTopUpApproved(ctx, t.ID, now); err != nil {
			return fmt.Errorf("mark approved: %w", err)
		}
		if bonus.IsPositive() {
			if err = s.CreatePromoUsage(ctx, t.AccountID, t.PromoID); err != nil {
				return fmt.Errorf("record promo usage: %w", err)
			}
		}
		err = s.CreateNotification(ctx, &entity.Notification{
			AccountID: t.AccountID,
			Kind:      entity.NotifySuccess,
			Title:     "Top-up approved",
			Message: fmt.Sprintf("+%s credited, +%s cashback, +%s promo bonus. Balance updated.",
				t.Amount.StringFixed(2), t.Cashback.StringFixed(2), bonus.StringFixed(2)),
		})
		if err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		topup = t
		return nil
	})
	if errors.Is(err, errAlreadyApplied) {
		l.log.Debug("topup already approved",
			slog.Int64("topup_id", requestID),
			slog.String("via", string(via)),
		)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	l.log.Info("topup approved",
		slog.Int64("topup_id", requestID),
		slog.Int64("account_id", topup.AccountID),
		slog.String("total", total.StringFixed(2)),
		slog.String("via", string(via)),
	)
	if l.journal != nil {
		if err := l.journal.Record(ctx, "topup_approved", map[string]interface{}{
			"topup_id":   requestID,
			"account_id": topup.AccountID,
			"total":      total.StringFixed(2),
			"via":        via,
			"at":         time.Now().UTC(),
		}); err != nil {
			l.log.Warn("journal approval", sl.Err(err))
		}
	}
	l.retract(ctx, requestID)
	return true, nil
}

// RejectTopUp performs no ledger mutation: a rejected request stays
// pending and may still be approved later through another channel. The
// only effect is retracting the interactive control.
func (l *Ledger) RejectTopUp(ctx context.Context, requestID int64) error {
	if _, err := l.store.TopUpByID(ctx, requestID); err != nil {
		return err
	}
	l.log.Info("topup rejected, control retracted", slog.Int64("topup_id", requestID))
	l.retract(ctx, requestID)
	return nil
}

// retract removes the cached approve/reject control, if any. Never
// fatal; the ledger outcome is already committed.
func (l *Ledger) retract(ctx context.Context, requestID int64) {
	if l.refs == nil {
		return
	}
	ref, err := l.refs.Get(ctx, requestID)
	if err != nil {
		l.log.Warn("lookup message ref", slog.Int64("topup_id", requestID), sl.Err(err))
		return
	}
	if ref == nil {
		return
	}
	if l.msg != nil {
		if err = l.msg.RetractControl(ref); err != nil {
			l.log.Warn("retract control", slog.Int64("topup_id", requestID), sl.Err(err))
		}
	}
	if err = l.refs.Del(ctx, requestID); err != nil {
		l.log.Warn("drop message ref", slog.Int64("topup_id", requestID), sl.Err(err))
	}
}

// RegisterControlRef stores the coordinates of an approval control
// posted by an external process, so it can be retracted on resolution.
func (l *Ledger) RegisterControlRef(ctx context.Context, ref *entity.MessageRef) error {
	if l.refs == nil {
		return fmt.Errorf("message ref cache not available")
	}
	if _, err := l.store.TopUpByID(ctx, ref.TopUpID); err != nil {
		return err
	}
	return l.refs.Set(ctx, ref)
}

// VerifyLinkToken authorizes a signed approval or reject link.
func (l *Ledger) VerifyLinkToken(ctx context.Context, requestID int64, token string) error {
	t, err := l.store.TopUpByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !l.signer.Verify(t.ID, t.AccountID, token) {
		return entity.ErrInvalidToken
	}
	return nil
}

// ApproveTopUpByRef resolves an external reference (e.g. from payment
// provider metadata) and approves the request it names.
func (l *Ledger) ApproveTopUpByRef(ctx context.Context, ref string, via entity.ApprovalVia) (bool, error) {
	t, err := l.store.TopUpByRef(ctx, ref)
	if err != nil {
		return false, err
	}
	return l.ApproveTopUp(ctx, t.ID, via)
}

// BulkApprove processes each request under the same atomic exactly-once
// rule independently; partial success across the batch is expected.
func (l *Ledger) BulkApprove(ctx context.Context, ids []int64) (int, error) {
	applied := 0
	for _, id := range ids {
		ok, err := l.ApproveTopUp(ctx, id, entity.ViaAdmin)
		if err != nil {
			l.log.Warn("bulk approve", slog.Int64("topup_id", id), sl.Err(err))
			continue
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// PendingTopUps lists requests awaiting approval, for the admin view.
func (l *Ledger) PendingTopUps(ctx context.Context) ([]*entity.TopUpRequest, error) {
	return l.store.ListPendingTopUps(ctx)
}

// Notifications returns the account's inbox, newest first.
func (l *Ledger) Notifications(ctx context.Context, accountID int64) ([]*entity.Notification, error) {
	return l.store.ListNotifications(ctx, accountID)
}

func (l *Ledger) MarkNotificationsRead(ctx context.Context, accountID int64) error {
	return l.store.MarkNotificationsRead(ctx, accountID)
}
