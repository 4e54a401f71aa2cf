package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fondeo/entity"
)

// StartProject debits the fixed project fee and creates the project as
// one atomic unit, the same shape as a top-up approval but
// unconditional: it is a direct authenticated action, so there is no
// idempotency concern.
func (l *Ledger) StartProject(ctx context.Context, ownerID int64, p *entity.StartProjectParams) (*entity.Project, error) {
	name := p.Name
	if name == "" {
		name = "Unnamed Project"
	}
	project := &entity.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: p.Description,
		Data:        p.Data,
	}

	// A config id pointing at someone else's config is silently dropped,
	// not rejected.
	if p.ConfigID != 0 {
		conf, err := l.store.IdeaConfigByID(ctx, p.ConfigID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("lookup config: %w", err)
		}
		if conf != nil && conf.OwnerID == ownerID {
			project.ConfigID = conf.ID
		}
	}

	err := l.store.InTx(ctx, func(s Store) error {
		account, err := s.AccountForUpdate(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}
		if account.Balance.LessThan(l.conf.ProjectFee) {
			return entity.ErrInsufficientBalance
		}
		if err = s.UpdateBalance(ctx, ownerID, round2(account.Balance.Sub(l.conf.ProjectFee))); err != nil {
			return fmt.Errorf("debit fee: %w", err)
		}
		if err = s.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		return s.CreateNotification(ctx, &entity.Notification{
			AccountID: ownerID,
			Kind:      entity.NotifySuccess,
			Title:     "New project started",
			Message:   fmt.Sprintf("Fee %s deducted. Project %s created.", l.conf.ProjectFee.StringFixed(2), project.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("project started",
		slog.Int64("owner_id", ownerID),
		slog.Int64("project_id", project.ID),
		slog.String("fee", l.conf.ProjectFee.StringFixed(2)),
	)
	return project, nil
}

func (l *Ledger) CreateIdeaConfig(ctx context.Context, ownerID int64, c *entity.IdeaConfig) (*entity.IdeaConfig, error) {
	c.OwnerID = ownerID
	if err := l.store.CreateIdeaConfig(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Ledger) IdeaConfigs(ctx context.Context, ownerID int64) ([]*entity.IdeaConfig, error) {
	return l.store.ListIdeaConfigs(ctx, ownerID)
}

func (l *Ledger) Projects(ctx context.Context, ownerID int64) ([]*entity.Project, error) {
	return l.store.ListProjects(ctx, ownerID)
}

// CreateListing puts one of the owner's projects on the public
// marketplace.
func (l *Ledger) CreateListing(ctx context.Context, ownerID int64, p *entity.ListingParams) (*entity.ProjectListing, error) {
	project, err := l.store.ProjectByID(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, entity.ErrNotFound
	}
	listing := &entity.ProjectListing{
		ProjectID:     project.ID,
		FundingSought: round2(p.FundingSought),
		EquityOffered: round2(p.EquityOffered),
		Pitch:         p.Pitch,
	}
	if err = l.store.CreateListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Listings returns the marketplace: all listings when all is set,
// otherwise only the caller's own.
func (l *Ledger) Listings(ctx context.Context, ownerID int64, all bool) ([]*entity.ProjectListing, error) {
	return l.store.ListListings(ctx, ownerID, all)
}
