package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Pitch struct {
	ID           string         `json:"id" gorm:"primaryKey;size:50"`
	DeveloperID  string         `json:"developer_id" gorm:"size:50;index;not null"`
	Developer    User           `json:"developer" gorm:"foreignKey:DeveloperID;references:ID"`
	Title        string         `json:"title" gorm:"size:80;not null"`
	Description  string         `json:"description" gorm:"size:300"`
	Tags         datatypes.JSON `json:"tags"`
	FundingStage string         `json:"funding_stage" gorm:"size:30"`
	Ask          string         `json:"ask" gorm:"size:150"`
	Video        string         `json:"video" gorm:"size:512"`
	Thumbnail    string         `json:"thumbnail" gorm:"size:512"`
	Views        int            `json:"views" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"-"`
}

func (p *Pitch) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Pitch) MarshalJSON() ([]byte, error) {
	type Alias Pitch
	aux := &struct {
		Tags      []string `json:"tags"`
		Developer *User    `json:"developer,omitempty"`
		*Alias
	}{
		Tags:  []string{},
		Alias: (*Alias)(p),
	}

	if p.Tags != nil {
		var tags []string
		if err := json.Unmarshal(p.Tags, &tags); err == nil {
			aux.Tags = tags
		}
	}

	// Only include the developer when it was preloaded
	if p.Developer.ID != "" {
		dev := p.Developer
		aux.Developer = &dev
	}

	return json.Marshal(aux)
}

// SavedPitch is an investor's bookmark on a pitch. The composite unique
// index is what makes save idempotent under concurrent calls.
type SavedPitch struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	InvestorID string    `json:"investor_id" gorm:"size:50;not null;uniqueIndex:idx_saved_pitch"`
	PitchID    string    `json:"pitch_id" gorm:"size:50;not null;uniqueIndex:idx_saved_pitch"`
	Investor   User      `json:"-" gorm:"foreignKey:InvestorID;references:ID"`
	Pitch      Pitch     `json:"pitch" gorm:"foreignKey:PitchID;references:ID"`
	SavedAt    time.Time `json:"saved_at" gorm:"autoCreateTime"`
}
