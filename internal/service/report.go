package service

import (
	"context"
	"errors"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/repo/repo_errors"
)

type ReportService struct {
	metricsRepo repo.Metrics
	userRepo    repo.User
}

func NewReportService(repos *repo.Repositories) *ReportService {
	return &ReportService{
		metricsRepo: repos.Metrics,
		userRepo:    repos.User,
	}
}

func (s *ReportService) GetOpportunityReport(ctx context.Context, username string) (*entity.OpportunityReport, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if user.Role != common.RoleAdmin {
		return nil, ErrUserNotPermitted
	}

	byStatus, err := s.metricsRepo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	total, awarded, err := s.metricsRepo.BudgetTotals(ctx)
	if err != nil {
		return nil, err
	}

	opportunities, err := s.metricsRepo.CountOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	proposals, err := s.metricsRepo.CountProposals(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.OpportunityReport{
		Opportunities:  opportunities,
		ByStatus:       byStatus,
		Proposals:      proposals,
		TotalMaxBudget: total,
		AwardedBudget:  awarded,
	}, nil
}
