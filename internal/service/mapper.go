package service

import (
	"procurement-marketplace-api/internal/entity"
	"time"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

func mapOpportunity(o *entity.Opportunity, files []entity.FileRecord, addenda []entity.Addendum) *entity.OpportunityOutputModel {
	return &entity.OpportunityOutputModel{
		Id:                 o.Id.String(),
		Status:             o.Status,
		Version:            o.Version,
		CreatedBy:          o.CreatedBy.String(),
		CreatedAt:          formatTime(o.CreatedAt),
		Title:              o.Title,
		Teaser:             o.Teaser,
		Description:        o.Description,
		Location:           o.Location,
		MaxBudget:          o.MaxBudget,
		EvaluationCriteria: o.EvaluationCriteria,
		ProposalDeadline:   formatTime(o.ProposalDeadline),
		AssignmentDate:     formatTime(o.AssignmentDate),
		StartDate:          formatTime(o.StartDate),
		CompletionDate:     formatTime(o.CompletionDate),
		Attachments:        mapFiles(files),
		Addenda:            mapAddenda(addenda),
	}
}

func mapSlim(o *entity.OpportunitySlim) *entity.OpportunitySlimOutputModel {
	return &entity.OpportunitySlimOutputModel{
		Id:               o.Id.String(),
		Title:            o.Title,
		Status:           o.Status,
		Version:          o.Version,
		ProposalDeadline: formatTime(o.ProposalDeadline),
		CreatedAt:        formatTime(o.CreatedAt),
	}
}

func mapSlims(opportunities []entity.OpportunitySlim) []entity.OpportunitySlimOutputModel {
	s := make([]entity.OpportunitySlimOutputModel, 0)
	for _, o := range opportunities {
		s = append(s, *mapSlim(&o))
	}

	return s
}

func mapFile(f *entity.FileRecord) *entity.FileOutputModel {
	return &entity.FileOutputModel{
		Id:          f.Id.String(),
		CreatedAt:   formatTime(f.CreatedAt),
		Name:        f.Name,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
	}
}

func mapFiles(files []entity.FileRecord) []entity.FileOutputModel {
	s := make([]entity.FileOutputModel, 0)
	for _, f := range files {
		s = append(s, *mapFile(&f))
	}

	return s
}

func mapAddendum(a *entity.Addendum) *entity.AddendumOutputModel {
	return &entity.AddendumOutputModel{
		Id:          a.Id.String(),
		Description: a.Description,
		Author:      a.AuthorUsername,
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func mapAddenda(addenda []entity.Addendum) []entity.AddendumOutputModel {
	s := make([]entity.AddendumOutputModel, 0)
	for _, a := range addenda {
		s = append(s, *mapAddendum(&a))
	}

	return s
}

func mapHistoryRecord(h *entity.HistoryRecord) *entity.HistoryOutputModel {
	return &entity.HistoryOutputModel{
		Id:        h.Id.String(),
		CreatedAt: formatTime(h.CreatedAt),
		Author:    h.AuthorUsername,
		Kind:      h.Kind,
		Status:    h.Status,
		Event:     h.Event,
		Note:      h.Note,
	}
}

func mapHistory(records []entity.HistoryRecord) []entity.HistoryOutputModel {
	s := make([]entity.HistoryOutputModel, 0)
	for _, h := range records {
		s = append(s, *mapHistoryRecord(&h))
	}

	return s
}

func mapProposal(p *entity.Proposal) *entity.ProposalOutputModel {
	return &entity.ProposalOutputModel{
		Id:            p.Id.String(),
		OpportunityId: p.OpportunityId.String(),
		Status:        p.Status,
		Summary:       p.Summary,
		ProposedCost:  p.ProposedCost,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

func mapProposals(proposals []entity.Proposal) []entity.ProposalOutputModel {
	s := make([]entity.ProposalOutputModel, 0)
	for _, p := range proposals {
		s = append(s, *mapProposal(&p))
	}

	return s
}
