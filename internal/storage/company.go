package storage

import (
	"context"
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleWorker  = "worker"
)

// resolveCompanyCode prefers the company the user registered and falls back to the registered
// company behind the user's team membership.
func (s *PostgresStorage) resolveCompanyCode(ctx context.Context, userID int64) (string, error) {
	registered, err := s.companies.GetRegisteredByOwner(ctx, userID)
	switch {
	case err == nil:
		if code := ordernum.CompanyCode(registered.Code); code != "" {
			return code, nil
		}
		return "", apperrors.CompanyResolution("registered company of user %d has no numeric code", userID)
	case !errors.Is(err, repository.ErrObjectNotFound):
		return "", fmt.Errorf("failed to load registered company: %w", err)
	}

	member, err := s.companies.GetMembership(ctx, userID)
	switch {
	case err == nil:
		if member.RegisteredCode != nil {
			if code := ordernum.CompanyCode(*member.RegisteredCode); code != "" {
				return code, nil
			}
		}
	case !errors.Is(err, repository.ErrObjectNotFound):
		return "", fmt.Errorf("failed to load team membership: %w", err)
	}

	return "", apperrors.CompanyResolution("no registered company found for user %d", userID)
}

// companyRole returns the team company the user belongs to and the user's role in it.
func (s *PostgresStorage) companyRole(ctx context.Context, userID int64) (int64, string, bool, error) {
	team, err := s.companies.GetTeamByOwner(ctx, userID)
	if err == nil {
		return team.ID, RoleOwner, true, nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return 0, "", false, fmt.Errorf("failed to load team company: %w", err)
	}

	member, err := s.companies.GetMembership(ctx, userID)
	if err == nil {
		return member.CompanyID, member.Role, true, nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return 0, "", false, fmt.Errorf("failed to load team membership: %w", err)
	}
	return 0, "", false, nil
}

func (s *PostgresStorage) managedCompany(ctx context.Context, actorID int64) (int64, error) {
	companyID, role, ok, err := s.companyRole(ctx, actorID)
	if err != nil {
		return 0, err
	}
	if !ok || (role != RoleOwner && role != RoleManager) {
		return 0, apperrors.Permission("access denied")
	}
	return companyID, nil
}

// authorizeDelegation checks that actorID may act on behalf of memberID.
func (s *PostgresStorage) authorizeDelegation(ctx context.Context, actorID, memberID int64) error {
	if actorID == memberID {
		return nil
	}
	companyID, err := s.managedCompany(ctx, actorID)
	if err != nil {
		return err
	}
	_, err = s.companies.GetMember(ctx, companyID, memberID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return apperrors.Permission("user %d is not in your team", memberID)
	}
	if err != nil {
		return fmt.Errorf("failed to load team member: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListTeamMembers(ctx context.Context, actorID int64) ([]*TeamMember, error) {
	companyID, err := s.managedCompany(ctx, actorID)
	if err != nil {
		return nil, err
	}
	members, err := s.companies.ListMembers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	out := make([]*TeamMember, 0, len(members))
	for _, m := range members {
		out = append(out, &TeamMember{UserID: m.UserID, Username: m.Username, FullName: m.FullName, Role: m.Role})
	}
	return out, nil
}

func (s *PostgresStorage) ListMemberListings(ctx context.Context, actorID, memberID int64, kind repository.ListingKind) ([]*Listing, error) {
	if !validKind(kind) {
		return nil, apperrors.Validation("unknown listing kind %q", kind)
	}
	if err := s.authorizeDelegation(ctx, actorID, memberID); err != nil {
		return nil, err
	}
	rows, err := s.listings.List(ctx, repository.ListingFilter{Kind: kind, OwnerID: &memberID})
	if err != nil {
		return nil, fmt.Errorf("failed to list member listings: %w", err)
	}
	return toListings(rows), nil
}
