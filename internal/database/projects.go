package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fondeo/entity"
)

func (s *MySql) CreateIdeaConfig(ctx context.Context, c *entity.IdeaConfig) error {
	model, err := json.Marshal(c.BusinessModel)
	if err != nil {
		return fmt.Errorf("marshal business model: %w", err)
	}
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO idea_configs (owner_id, industry, investment, idea_topic, brief_info, complexity, business_model, is_golden_ticket)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.OwnerID, c.Industry, c.Investment, c.IdeaTopic, c.BriefInfo, c.Complexity, string(model), c.GoldenTicket)
	if err != nil {
		return fmt.Errorf("insert idea config: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func scanIdeaConfig(scan func(dest ...interface{}) error) (*entity.IdeaConfig, error) {
	var c entity.IdeaConfig
	var model string
	err := scan(&c.ID, &c.OwnerID, &c.Industry, &c.Investment, &c.IdeaTopic, &c.BriefInfo,
		&c.Complexity, &model, &c.GoldenTicket, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if model != "" {
		if err = json.Unmarshal([]byte(model), &c.BusinessModel); err != nil {
			return nil, fmt.Errorf("unmarshal business model: %w", err)
		}
	}
	return &c, nil
}

const ideaConfigColumns = `id, owner_id, industry, investment, idea_topic, COALESCE(brief_info, ''),
	complexity, COALESCE(business_model, ''), is_golden_ticket, created_at`

func (s *MySql) IdeaConfigByID(ctx context.Context, id int64) (*entity.IdeaConfig, error) {
	row := s.ex.QueryRowContext(ctx,
		`SELECT `+ideaConfigColumns+` FROM idea_configs WHERE id = ?`, id)
	c, err := scanIdeaConfig(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan idea config: %w", err)
	}
	return c, nil
}

func (s *MySql) ListIdeaConfigs(ctx context.Context, ownerID int64) ([]*entity.IdeaConfig, error) {
	rows, err := s.ex.QueryContext(ctx,
		`SELECT `+ideaConfigColumns+` FROM idea_configs WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list idea configs: %w", err)
	}
	defer rows.Close()

	var configs []*entity.IdeaConfig
	for rows.Next() {
		c, err := scanIdeaConfig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan idea config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (s *MySql) CreateProject(ctx context.Context, p *entity.Project) error {
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO projects (owner_id, config_id, project_name, description, data)
		 VALUES (?, ?, ?, ?, ?)`,
		p.OwnerID, p.ConfigID, p.Name, p.Description, string(p.Data))
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

const projectColumns = `id, owner_id, config_id, project_name, COALESCE(description, ''), COALESCE(data, ''), created_at`

func scanProject(scan func(dest ...interface{}) error) (*entity.Project, error) {
	var p entity.Project
	var data string
	err := scan(&p.ID, &p.OwnerID, &p.ConfigID, &p.Name, &p.Description, &data, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if data != "" {
		p.Data = json.RawMessage(data)
	}
	return &p, nil
}

func (s *MySql) ProjectByID(ctx context.Context, id int64) (*entity.Project, error) {
	row := s.ex.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}

func (s *MySql) ListProjects(ctx context.Context, ownerID int64) ([]*entity.Project, error) {
	rows, err := s.ex.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *MySql) CreateListing(ctx context.Context, l *entity.ProjectListing) error {
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO listings (project_id, funding_sought, equity_offered, pitch) VALUES (?, ?, ?, ?)`,
		l.ProjectID, l.FundingSought.StringFixed(2), l.EquityOffered.StringFixed(2), l.Pitch)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// ListListings returns the public marketplace when all is set,
// otherwise only listings of the given owner's projects. Founder
// details are denormalized into each row.
func (s *MySql) ListListings(ctx context.Context, ownerID int64, all bool) ([]*entity.ProjectListing, error) {
	query := `SELECT l.id, l.project_id, l.funding_sought, l.equity_offered, l.pitch, l.created_at,
			p.project_name, COALESCE(p.description, ''), a.phone_number, a.full_name
		FROM listings l
		JOIN projects p ON p.id = l.project_id
		JOIN accounts a ON a.id = p.owner_id`
	args := []interface{}{}
	if !all {
		query += ` WHERE p.owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY l.created_at DESC`

	rows, err := s.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []*entity.ProjectListing
	for rows.Next() {
		var l entity.ProjectListing
		if err = rows.Scan(&l.ID, &l.ProjectID, &l.FundingSought, &l.EquityOffered, &l.Pitch, &l.CreatedAt,
			&l.ProjectName, &l.Description, &l.FounderPhone, &l.FounderName); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}
