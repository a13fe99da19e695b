package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

const memberSelect = `
    SELECT m.id, m.company_id, m.user_id, m.role, m.full_name, u.username, rc.code AS registered_code
    FROM team_members m
    JOIN users u ON u.id = m.user_id
    JOIN team_companies tc ON tc.id = m.company_id
    LEFT JOIN registered_companies rc ON rc.id = tc.registered_company_id`

type CompanyRepo struct {
	db db.DB
}

func NewCompanyRepo(db db.DB) storage.CompanyRepository {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) GetRegisteredByOwner(ctx context.Context, userID int64) (*repository.RegisteredCompany, error) {
	var company repository.RegisteredCompany
	err := r.db.Get(ctx, &company, `
        SELECT id, country, code, registered_by
        FROM registered_companies
        WHERE registered_by = $1
        ORDER BY id
        LIMIT 1
    `, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepo) GetTeamByOwner(ctx context.Context, userID int64) (*repository.TeamCompany, error) {
	var company repository.TeamCompany
	err := r.db.Get(ctx, &company, `
        SELECT id, name, created_by, registered_company_id
        FROM team_companies
        WHERE created_by = $1
        ORDER BY id
        LIMIT 1
    `, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepo) GetMembership(ctx context.Context, userID int64) (*repository.TeamMember, error) {
	var member repository.TeamMember
	err := r.db.Get(ctx, &member, memberSelect+" WHERE m.user_id = $1", userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *CompanyRepo) GetMember(ctx context.Context, companyID, userID int64) (*repository.TeamMember, error) {
	var member repository.TeamMember
	err := r.db.Get(ctx, &member, memberSelect+" WHERE m.company_id = $1 AND m.user_id = $2", companyID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *CompanyRepo) ListMembers(ctx context.Context, companyID int64) ([]*repository.TeamMember, error) {
	var members []*repository.TeamMember
	err := r.db.Select(ctx, &members, memberSelect+" WHERE m.company_id = $1 ORDER BY m.id", companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}
