package service

import (
	"context"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(metricsRepo *fakeMetricsRepo) *ReportService {
	return NewReportService(&repo.Repositories{
		User:    testUsers(),
		Metrics: metricsRepo,
	})
}

func TestGetOpportunityReport(t *testing.T) {
	metricsRepo := &fakeMetricsRepo{
		byStatus: []entity.StatusCount{
			{Status: common.Published, Count: 4},
			{Status: common.Awarded, Count: 2},
		},
		total:         1200000,
		awarded:       450000,
		opportunities: 6,
		proposals:     17,
	}
	s := newReportService(metricsRepo)

	report, err := s.GetOpportunityReport(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, 6, report.Opportunities)
	assert.Equal(t, 17, report.Proposals)
	assert.Equal(t, float64(1200000), report.TotalMaxBudget)
	assert.Equal(t, float64(450000), report.AwardedBudget)
	assert.Len(t, report.ByStatus, 2)
}

func TestGetOpportunityReportPermissions(t *testing.T) {
	s := newReportService(&fakeMetricsRepo{})

	for _, username := range []string{"owner", "vendor"} {
		_, err := s.GetOpportunityReport(context.Background(), username)
		require.ErrorIs(t, err, ErrUserNotPermitted, "user %s", username)
	}

	_, err := s.GetOpportunityReport(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
