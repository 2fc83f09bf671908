package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingSummary is the structured one-to-one companion of a completed
// meeting: discussion points, action items and decisions as JSON lists,
// plus follow-up planning.
type MeetingSummary struct {
	ID               string         `json:"id" gorm:"primaryKey;size:50"`
	ContactRequestID string         `json:"contact_request_id" gorm:"size:50;uniqueIndex;not null"`
	DiscussionPoints datatypes.JSON `json:"discussion_points"`
	ActionItems      datatypes.JSON `json:"action_items"`
	DecisionsMade    datatypes.JSON `json:"decisions_made"`
	NextSteps        string         `json:"next_steps" gorm:"type:text"`
	NeedsFollowup    bool           `json:"needs_followup" gorm:"default:false"`
	FollowupDate     *time.Time     `json:"followup_date"`
	AdditionalNotes  string         `json:"additional_notes" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (s *MeetingSummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ActionItem is one entry of the ActionItems list.
type ActionItem struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"`
}

func (s *MeetingSummary) MarshalJSON() ([]byte, error) {
	type Alias MeetingSummary
	aux := &struct {
		DiscussionPoints []string     `json:"discussion_points"`
		ActionItems      []ActionItem `json:"action_items"`
		DecisionsMade    []string     `json:"decisions_made"`
		*Alias
	}{
		DiscussionPoints: []string{},
		ActionItems:      []ActionItem{},
		DecisionsMade:    []string{},
		Alias:            (*Alias)(s),
	}

	if s.DiscussionPoints != nil {
		var points []string
		if err := json.Unmarshal(s.DiscussionPoints, &points); err == nil {
			aux.DiscussionPoints = points
		}
	}

	if s.ActionItems != nil {
		var items []ActionItem
		if err := json.Unmarshal(s.ActionItems, &items); err == nil {
			aux.ActionItems = items
		}
	}

	if s.DecisionsMade != nil {
		var decisions []string
		if err := json.Unmarshal(s.DecisionsMade, &decisions); err == nil {
			aux.DecisionsMade = decisions
		}
	}

	return json.Marshal(aux)
}
