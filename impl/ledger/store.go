package ledger

import (
	"context"
	"time"

	"fondeo/entity"

	"github.com/shopspring/decimal"
)

// Store is the durable storage the ledger depends on.
// Implemented by internal/database/mysql.go.
//
// InTx runs fn against a transaction-scoped Store; every mutation made
// inside fn commits or rolls back as one unit. The *ForUpdate reads
// take row locks, so concurrent approvals for the same request or the
// same account serialize at the storage layer.
type Store interface {
	InTx(ctx context.Context, fn func(s Store) error) error

	CreateAccount(ctx context.Context, a *entity.Account) error
	AccountByID(ctx context.Context, id int64) (*entity.Account, error)
	AccountByPhone(ctx context.Context, phone string) (*entity.Account, error)
	AccountByReferral(ctx context.Context, code string) (*entity.Account, error)
	AccountForUpdate(ctx context.Context, id int64) (*entity.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	SetReferralCode(ctx context.Context, id int64, code string) error
	SetReferredBy(ctx context.Context, id, referrerID int64) error
	CountReferrals(ctx context.Context, id int64) (int64, error)

	CreateTopUp(ctx context.Context, t *entity.TopUpRequest) error
	TopUpByID(ctx context.Context, id int64) (*entity.TopUpRequest, error)
	TopUpByRef(ctx context.Context, ref string) (*entity.TopUpRequest, error)
	TopUpForUpdate(ctx context.Context, id int64) (*entity.TopUpRequest, error)
	MarkTopUpApproved(ctx context.Context, id int64, at time.Time) error
	ListPendingTopUps(ctx context.Context) ([]*entity.TopUpRequest, error)

	PromoByCode(ctx context.Context, code string) (*entity.PromoCode, error)
	PromoUsed(ctx context.Context, accountID, promoID int64) (bool, error)
	CreatePromoUsage(ctx context.Context, accountID, promoID int64) error

	CreateNotification(ctx context.Context, n *entity.Notification) error
	ListNotifications(ctx context.Context, accountID int64) ([]*entity.Notification, error)
	MarkNotificationsRead(ctx context.Context, accountID int64) error

	CreateIdeaConfig(ctx context.Context, c *entity.IdeaConfig) error
	IdeaConfigByID(ctx context.Context, id int64) (*entity.IdeaConfig, error)
	ListIdeaConfigs(ctx context.Context, ownerID int64) ([]*entity.IdeaConfig, error)
	CreateProject(ctx context.Context, p *entity.Project) error
	ListProjects(ctx context.Context, ownerID int64) ([]*entity.Project, error)
	ProjectByID(ctx context.Context, id int64) (*entity.Project, error)
	CreateListing(ctx context.Context, l *entity.ProjectListing) error
	ListListings(ctx context.Context, ownerID int64, all bool) ([]*entity.ProjectListing, error)
}
