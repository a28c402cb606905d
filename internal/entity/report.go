package entity

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Aggregates computed over the same latest-version / latest-status joins the
// read path uses.
type OpportunityReport struct {
	Opportunities  int           `json:"opportunities"`
	ByStatus       []StatusCount `json:"byStatus"`
	Proposals      int           `json:"proposals"`
	TotalMaxBudget float64       `json:"totalMaxBudget"`
	AwardedBudget  float64       `json:"awardedBudget"`
}
