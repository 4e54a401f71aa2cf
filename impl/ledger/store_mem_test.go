package ledger_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fondeo/entity"
	"fondeo/impl/ledger"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledger.Store with transactional rollback:
// InTx snapshots the whole state and restores it when fn fails, so the
// all-or-nothing behavior of the core can be exercised without a
// database.
type memStore struct {
	accounts      map[int64]*entity.Account
	topups        map[int64]*entity.TopUpRequest
	promos        map[int64]*entity.PromoCode
	usages        map[string]bool
	notifications []*entity.Notification
	configs       map[int64]*entity.IdeaConfig
	projects      map[int64]*entity.Project
	listings      map[int64]*entity.ProjectListing
	nextID        int64
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[int64]*entity.Account),
		topups:   make(map[int64]*entity.TopUpRequest),
		promos:   make(map[int64]*entity.PromoCode),
		usages:   make(map[string]bool),
		configs:  make(map[int64]*entity.IdeaConfig),
		projects: make(map[int64]*entity.Project),
		listings: make(map[int64]*entity.ProjectListing),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func usageKey(accountID, promoID int64) string {
	return fmt.Sprintf("%d:%d", accountID, promoID)
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextID = s.nextID
	for k, v := range s.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range s.topups {
		t := *v
		c.topups[k] = &t
	}
	for k, v := range s.promos {
		p := *v
		c.promos[k] = &p
	}
	for k, v := range s.usages {
		c.usages[k] = v
	}
	for _, n := range s.notifications {
		nn := *n
		c.notifications = append(c.notifications, &nn)
	}
	for k, v := range s.configs {
		cc := *v
		c.configs[k] = &cc
	}
	for k, v := range s.projects {
		p := *v
		c.projects[k] = &p
	}
	for k, v := range s.listings {
		l := *v
		c.listings[k] = &l
	}
	return c
}

func (s *memStore) InTx(ctx context.Context, fn func(ledger.Store) error) error {
	backup := s.clone()
	if err := fn(s); err != nil {
		*s = *backup
		return err
	}
	return nil
}

func (s *memStore) CreateAccount(_ context.Context, a *entity.Account) error {
	for _, existing := range s.accounts {
		if existing.Phone == a.Phone {
			return entity.ErrPhoneTaken
		}
	}
	a.ID = s.id()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *memStore) AccountByID(_ context.Context, id int64) (*entity.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) AccountByPhone(_ context.Context, phone string) (*entity.Account, error) {
	for _, a := range s.accounts {
		if a.Phone == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *memStore) AccountByReferral(_ context.Context, code string) (*entity.Account, error) {
	code = strings.ToUpper(code)
	for _, a := range s.accounts {
		if a.ReferralCode != "" && a.ReferralCode == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *memStore) AccountForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return s.AccountByID(ctx, id)
}

func (s *memStore) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	a, ok := s.accounts[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.Balance = balance
	return nil
}

func (s *memStore) SetReferralCode(_ context.Context, id int64, code string) error {
	a, ok := s.accounts[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.ReferralCode = code
	return nil
}

func (s *memStore) SetReferredBy(_ context.Context, id, referrerID int64) error {
	a, ok := s.accounts[id]
	if !ok {
		return entity.ErrNotFound
	}
	if a.ReferredBy != 0 {
		return fmt.Errorf("referred_by already set")
	}
	a.ReferredBy = referrerID
	return nil
}

func (s *memStore) CountReferrals(_ context.Context, id int64) (int64, error) {
	var n int64
	for _, a := range s.accounts {
		if a.ReferredBy == id {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateTopUp(_ context.Context, t *entity.TopUpRequest) error {
	t.ID = s.id()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	s.topups[t.ID] = &cp
	return nil
}

func (s *memStore) TopUpByID(_ context.Context, id int64) (*entity.TopUpRequest, error) {
	t, ok := s.topups[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) TopUpByRef(_ context.Context, ref string) (*entity.TopUpRequest, error) {
	for _, t := range s.topups {
		if t.Ref == ref {
			cp := *t
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *memStore) TopUpForUpdate(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	return s.TopUpByID(ctx, id)
}

func (s *memStore) MarkTopUpApproved(_ context.Context, id int64, at time.Time) error {
	t, ok := s.topups[id]
	if !ok {
		return entity.ErrNotFound
	}
	if t.Status != entity.TopUpPending {
		return fmt.Errorf("topup %d not pending", id)
	}
	t.Status = entity.TopUpApproved
	t.ActivatedAt = &at
	return nil
}

func (s *memStore) ListPendingTopUps(_ context.Context) ([]*entity.TopUpRequest, error) {
	var out []*entity.TopUpRequest
	for _, t := range s.topups {
		if t.Status == entity.TopUpPending {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) PromoByCode(_ context.Context, code string) (*entity.PromoCode, error) {
	for _, p := range s.promos {
		if strings.EqualFold(p.Code, code) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *memStore) PromoUsed(_ context.Context, accountID, promoID int64) (bool, error) {
	return s.usages[usageKey(accountID, promoID)], nil
}

func (s *memStore) CreatePromoUsage(_ context.Context, accountID, promoID int64) error {
	key := usageKey(accountID, promoID)
	if s.usages[key] {
		return fmt.Errorf("duplicate promo usage")
	}
	s.usages[key] = true
	return nil
}

func (s *memStore) CreateNotification(_ context.Context, n *entity.Notification) error {
	n.ID = s.id()
	n.CreatedAt = time.Now().UTC()
	cp := *n
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s *memStore) ListNotifications(_ context.Context, accountID int64) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range s.notifications {
		if n.AccountID == accountID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) MarkNotificationsRead(_ context.Context, accountID int64) error {
	for _, n := range s.notifications {
		if n.AccountID == accountID {
			n.Read = true
		}
	}
	return nil
}

func (s *memStore) CreateIdeaConfig(_ context.Context, c *entity.IdeaConfig) error {
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	s.configs[c.ID] = &cp
	return nil
}

func (s *memStore) IdeaConfigByID(_ context.Context, id int64) (*entity.IdeaConfig, error) {
	c, ok := s.configs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) ListIdeaConfigs(_ context.Context, ownerID int64) ([]*entity.IdeaConfig, error) {
	var out []*entity.IdeaConfig
	for _, c := range s.configs {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) CreateProject(_ context.Context, p *entity.Project) error {
	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *memStore) ProjectByID(_ context.Context, id int64) (*entity.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListProjects(_ context.Context, ownerID int64) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) CreateListing(_ context.Context, l *entity.ProjectListing) error {
	l.ID = s.id()
	l.CreatedAt = time.Now().UTC()
	cp := *l
	s.listings[l.ID] = &cp
	return nil
}

func (s *memStore) ListListings(_ context.Context, ownerID int64, all bool) ([]*entity.ProjectListing, error) {
	var out []*entity.ProjectListing
	for _, l := range s.listings {
		if !all {
			p, ok := s.projects[l.ProjectID]
			if !ok || p.OwnerID != ownerID {
				continue
			}
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}
