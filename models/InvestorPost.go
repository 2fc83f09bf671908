package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvestorPost struct {
	ID                string         `json:"id" gorm:"primaryKey;size:50"`
	InvestorID        string         `json:"investor_id" gorm:"size:50;index;not null"`
	Investor          User           `json:"investor" gorm:"foreignKey:InvestorID;references:ID"`
	Title             string         `json:"title" gorm:"size:150;not null"`
	Description       string         `json:"description" gorm:"type:text"`
	Tags              datatypes.JSON `json:"tags"`
	Stages            datatypes.JSON `json:"stages"`
	AmountRange       string         `json:"amount_range" gorm:"size:50"`
	Location          string         `json:"location" gorm:"size:120"`
	ContactPreference string         `json:"contact_preference" gorm:"size:20;default:'email'"`
	Logo              string         `json:"logo" gorm:"size:512"`
	Views             int            `json:"views" gorm:"default:0"`
	SavedCount        int            `json:"saved_count" gorm:"default:0"`
	Status            string         `json:"status" gorm:"type:varchar(10);default:'pending';index"` // pending, approved, rejected
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"-"`
}

func (p *InvestorPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *InvestorPost) MarshalJSON() ([]byte, error) {
	type Alias InvestorPost
	aux := &struct {
		Tags     []string `json:"tags"`
		Stages   []string `json:"stages"`
		Investor *User    `json:"investor,omitempty"`
		*Alias
	}{
		Tags:   []string{},
		Stages: []string{},
		Alias:  (*Alias)(p),
	}

	if p.Tags != nil {
		var tags []string
		if err := json.Unmarshal(p.Tags, &tags); err == nil {
			aux.Tags = tags
		}
	}

	if p.Stages != nil {
		var stages []string
		if err := json.Unmarshal(p.Stages, &stages); err == nil {
			aux.Stages = stages
		}
	}

	if p.Investor.ID != "" {
		inv := p.Investor
		aux.Investor = &inv
	}

	return json.Marshal(aux)
}

// SavedInvestorPost is a developer's bookmark on an investor post.
type SavedInvestorPost struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	DeveloperID string       `json:"developer_id" gorm:"size:50;not null;uniqueIndex:idx_saved_post"`
	PostID      string       `json:"post_id" gorm:"size:50;not null;uniqueIndex:idx_saved_post"`
	Developer   User         `json:"-" gorm:"foreignKey:DeveloperID;references:ID"`
	Post        InvestorPost `json:"post" gorm:"foreignKey:PostID;references:ID"`
	SavedAt     time.Time    `json:"saved_at" gorm:"autoCreateTime"`
}
