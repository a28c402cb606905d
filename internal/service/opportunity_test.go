package service

import (
	"context"
	"procurement-marketplace-api/internal/common"
	"procurement-marketplace-api/internal/entity"
	"procurement-marketplace-api/internal/repo/repo_errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerId  = uuid.New()
	adminId  = uuid.New()
	vendorId = uuid.New()
	otherId  = uuid.New()
)

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{
		"owner":  {Id: ownerId, Username: "owner", Role: common.RoleGovernment},
		"admin":  {Id: adminId, Username: "admin", Role: common.RoleAdmin},
		"vendor": {Id: vendorId, Username: "vendor", Role: common.RoleVendor},
		"other":  {Id: otherId, Username: "other", Role: common.RoleGovernment},
	}}
}

func testOpportunity(status string) *entity.Opportunity {
	return &entity.Opportunity{
		Id:               uuid.New(),
		CreatedBy:        ownerId,
		CreatedAt:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Status:           status,
		VersionId:        uuid.New(),
		Version:          1,
		Title:            "Road resurfacing, district 4",
		MaxBudget:        250000,
		ProposalDeadline: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newOpportunityService(opportunityRepo *fakeOpportunityRepo) (*OpportunityService, *fakeHistoryRepo, *fakeAddendumRepo, *fakeAttachmentRepo, *fakeSubscriptionRepo) {
	repos, historyRepo, addendumRepo, attachmentRepo, subscriptionRepo := newTestRepos(opportunityRepo, testUsers())
	return NewOpportunityService(repos), historyRepo, addendumRepo, attachmentRepo, subscriptionRepo
}

func TestGetOpportunityByIdVisibility(t *testing.T) {
	cases := []struct {
		name           string
		status         string
		username       string
		usernamePassed bool
		wantErr        error
		wantPrivate    bool
	}{
		{"anonymous sees published", common.Published, "", false, nil, false},
		{"anonymous sees awarded", common.Awarded, "", false, nil, false},
		{"anonymous rejected on draft", common.Draft, "", false, ErrUnauthorizedAnonymousAccess, false},
		{"anonymous rejected on suspended", common.Suspended, "", false, ErrUnauthorizedAnonymousAccess, false},
		{"vendor rejected on draft", common.Draft, "vendor", true, ErrUserHasNoAccessToOpportunity, false},
		{"other government rejected on draft", common.Draft, "other", true, ErrUserHasNoAccessToOpportunity, false},
		{"vendor sees published without private data", common.Published, "vendor", true, nil, false},
		{"owner sees own draft with private data", common.Draft, "owner", true, nil, true},
		{"admin sees any draft with private data", common.Draft, "admin", true, nil, true},
		{"unknown user rejected", common.Published, "nobody", true, ErrUserNotFound, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opportunityRepo := &fakeOpportunityRepo{
				opportunity: testOpportunity(tc.status),
				counts:      entity.OpportunityCounts{Views: 7, Watchers: 2, Proposals: 3},
			}
			s, historyRepo, _, _, _ := newOpportunityService(opportunityRepo)
			historyRepo.records = []entity.HistoryRecord{{
				Id:             uuid.New(),
				AuthorUsername: "owner",
				Kind:           common.KindStatus,
				Status:         tc.status,
			}}

			output, err := s.GetOpportunityById(context.Background(), opportunityRepo.opportunity.Id.String(), tc.username, tc.usernamePassed)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Zero(t, opportunityRepo.pageViews)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.status, output.Status)
			assert.Equal(t, 1, opportunityRepo.pageViews)

			if tc.wantPrivate {
				require.NotNil(t, output.Counts)
				assert.Equal(t, 7, output.Counts.Views)
				assert.Len(t, output.History, 1)
			} else {
				assert.Nil(t, output.Counts)
				assert.Empty(t, output.History)
			}
		})
	}
}

func TestGetOpportunityByIdNotFound(t *testing.T) {
	s, _, _, _, _ := newOpportunityService(&fakeOpportunityRepo{})

	_, err := s.GetOpportunityById(context.Background(), uuid.NewString(), "admin", true)
	require.ErrorIs(t, err, ErrOpportunityNotFound)
}

func TestGetOpportunityByIdBrokenAttachmentLink(t *testing.T) {
	opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
	s, _, _, attachmentRepo, _ := newOpportunityService(opportunityRepo)
	attachmentRepo.getErr = repo_errors.ErrBrokenLink

	_, err := s.GetOpportunityById(context.Background(), opportunityRepo.opportunity.Id.String(), "", false)
	require.ErrorIs(t, err, ErrLinkedRecordMissing)
}

func TestCreateOpportunityPermissions(t *testing.T) {
	opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
	s, _, _, _, _ := newOpportunityService(opportunityRepo)

	_, err := s.CreateOpportunity(context.Background(), &entity.CreateOpportunityInput{
		Title:           "Bridge inspection",
		CreatorUsername: "vendor",
	})
	require.ErrorIs(t, err, ErrUserNotPermitted)
	assert.Empty(t, opportunityRepo.createdInputs)

	output, err := s.CreateOpportunity(context.Background(), &entity.CreateOpportunityInput{
		Title:           "Bridge inspection",
		CreatorUsername: "owner",
	})
	require.NoError(t, err)
	require.Len(t, opportunityRepo.createdInputs, 1)
	require.NotNil(t, output.Counts)
}

func TestGetOpportunitiesFilterByRole(t *testing.T) {
	cases := []struct {
		name           string
		username       string
		usernamePassed bool
		wantPublicOnly bool
		wantOwnedBy    uuid.UUID
	}{
		{"anonymous gets public only", "", false, true, uuid.Nil},
		{"vendor gets public only", "vendor", true, true, uuid.Nil},
		{"government gets public plus own", "owner", true, true, ownerId},
		{"admin gets everything", "admin", true, false, uuid.Nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opportunityRepo := &fakeOpportunityRepo{}
			s, _, _, _, _ := newOpportunityService(opportunityRepo)

			_, err := s.GetOpportunities(context.Background(), tc.username, tc.usernamePassed, nil, entity.NewPaginationInput(5, 0))
			require.NoError(t, err)

			require.Len(t, opportunityRepo.listedFilters, 1)
			filter := opportunityRepo.listedFilters[0]
			assert.Equal(t, tc.wantPublicOnly, filter.PublicOnly)
			assert.Equal(t, tc.wantOwnedBy, filter.OwnedBy)
		})
	}
}

func TestEditOpportunityById(t *testing.T) {
	t.Run("empty input rejected", func(t *testing.T) {
		s, _, _, _, _ := newOpportunityService(&fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)})

		_, err := s.EditOpportunityById(context.Background(), uuid.NewString(), "owner", &entity.EditOpportunityInput{})
		require.ErrorIs(t, err, ErrNoNewChanges)
	})

	t.Run("terminal opportunity rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Canceled)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.EditOpportunityById(context.Background(), opportunityRepo.opportunity.Id.String(), "owner", &entity.EditOpportunityInput{Title: "New title"})
		require.ErrorIs(t, err, ErrOpportunityClosedForChanges)
		assert.Empty(t, opportunityRepo.editedInputs)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.EditOpportunityById(context.Background(), opportunityRepo.opportunity.Id.String(), "other", &entity.EditOpportunityInput{Title: "New title"})
		require.ErrorIs(t, err, ErrUserHasNoAccessToOpportunity)
	})

	t.Run("owner appends new version", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		output, err := s.EditOpportunityById(context.Background(), opportunityRepo.opportunity.Id.String(), "owner", &entity.EditOpportunityInput{Title: "New title"})
		require.NoError(t, err)
		require.Len(t, opportunityRepo.editedInputs, 1)
		assert.Equal(t, "New title", opportunityRepo.editedInputs[0].Title)
		require.NotNil(t, output.Counts)
	})
}

func TestUpdateOpportunityStatusById(t *testing.T) {
	t.Run("valid transition appends status row", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
		s, historyRepo, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.UpdateOpportunityStatusById(context.Background(), opportunityRepo.opportunity.Id.String(), common.Published, "go live", "owner")
		require.NoError(t, err)
		assert.Equal(t, []string{common.Published}, historyRepo.statuses)
	})

	t.Run("invalid transition rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
		s, historyRepo, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.UpdateOpportunityStatusById(context.Background(), opportunityRepo.opportunity.Id.String(), common.Awarded, "", "owner")
		require.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Empty(t, historyRepo.statuses)
	})

	t.Run("terminal status rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Awarded)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.UpdateOpportunityStatusById(context.Background(), opportunityRepo.opportunity.Id.String(), common.Published, "", "owner")
		require.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}

func TestRestoreOpportunityVersion(t *testing.T) {
	t.Run("missing version", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{
			opportunity: testOpportunity(common.Draft),
			restoreErr:  repo_errors.ErrNotFound,
		}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.RestoreOpportunityVersion(context.Background(), opportunityRepo.opportunity.Id.String(), 4, "owner")
		require.ErrorIs(t, err, ErrNoSuchVersion)
	})

	t.Run("terminal opportunity rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Canceled)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.RestoreOpportunityVersion(context.Background(), opportunityRepo.opportunity.Id.String(), 1, "owner")
		require.ErrorIs(t, err, ErrOpportunityClosedForChanges)
	})

	t.Run("owner restores", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		output, err := s.RestoreOpportunityVersion(context.Background(), opportunityRepo.opportunity.Id.String(), 1, "owner")
		require.NoError(t, err)
		require.NotNil(t, output)
	})
}

func TestSubscription(t *testing.T) {
	t.Run("vendor subscribes to published", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, _, _, subscriptionRepo := newOpportunityService(opportunityRepo)

		err := s.Subscribe(context.Background(), opportunityRepo.opportunity.Id.String(), "vendor")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{vendorId}, subscriptionRepo.subscribed)
	})

	t.Run("vendor cannot subscribe to draft", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
		s, _, _, _, _ := newOpportunityService(opportunityRepo)

		err := s.Subscribe(context.Background(), opportunityRepo.opportunity.Id.String(), "vendor")
		require.ErrorIs(t, err, ErrUserHasNoAccessToOpportunity)
	})

	t.Run("duplicate subscription", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, _, _, subscriptionRepo := newOpportunityService(opportunityRepo)
		subscriptionRepo.subscribeErr = repo_errors.ErrAlreadyExists

		err := s.Subscribe(context.Background(), opportunityRepo.opportunity.Id.String(), "vendor")
		require.ErrorIs(t, err, ErrAlreadySubscribed)
	})

	t.Run("unsubscribe without subscription", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, _, _, subscriptionRepo := newOpportunityService(opportunityRepo)
		subscriptionRepo.unsubscribeErr = repo_errors.ErrNotFound

		err := s.Unsubscribe(context.Background(), opportunityRepo.opportunity.Id.String(), "vendor")
		require.ErrorIs(t, err, ErrNotSubscribed)
	})
}

func TestAddAddendum(t *testing.T) {
	t.Run("owner adds addendum", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, addendumRepo, _, _ := newOpportunityService(opportunityRepo)

		output, err := s.AddAddendum(context.Background(), opportunityRepo.opportunity.Id.String(), "owner", "deadline extended")
		require.NoError(t, err)
		assert.Equal(t, addendumRepo.createdId.String(), output.Id)
		assert.Equal(t, "deadline extended", output.Description)
	})

	t.Run("terminal opportunity rejected", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Canceled)}
		s, _, addendumRepo, _, _ := newOpportunityService(opportunityRepo)

		_, err := s.AddAddendum(context.Background(), opportunityRepo.opportunity.Id.String(), "owner", "deadline extended")
		require.ErrorIs(t, err, ErrOpportunityClosedForChanges)
		assert.Empty(t, addendumRepo.addenda)
	})

	t.Run("edit of unknown addendum", func(t *testing.T) {
		opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Published)}
		s, _, addendumRepo, _, _ := newOpportunityService(opportunityRepo)
		addendumRepo.editErr = repo_errors.ErrNotFound

		_, err := s.EditAddendumById(context.Background(), opportunityRepo.opportunity.Id.String(), uuid.NewString(), "owner", "updated")
		require.ErrorIs(t, err, ErrAddendumNotFound)
	})
}

func TestRegisterFile(t *testing.T) {
	opportunityRepo := &fakeOpportunityRepo{opportunity: testOpportunity(common.Draft)}
	s, _, _, _, _ := newOpportunityService(opportunityRepo)

	_, err := s.RegisterFile(context.Background(), "vendor", &entity.CreateFileInput{Name: "plan.pdf"})
	require.ErrorIs(t, err, ErrUserNotPermitted)

	output, err := s.RegisterFile(context.Background(), "owner", &entity.CreateFileInput{
		Name:        "plan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "plan.pdf", output.Name)
	assert.Equal(t, int64(2048), output.SizeBytes)
}
