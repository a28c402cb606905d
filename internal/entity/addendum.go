package entity

import (
	"time"

	"github.com/google/uuid"
)

type Addendum struct {
	Id             uuid.UUID
	OpportunityId  uuid.UUID
	CreatedBy      uuid.UUID
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Description    string
}

type AddendumOutputModel struct {
	Id          string `json:"id"`
	Description string `json:"description"`
	Author      string `json:"author"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
