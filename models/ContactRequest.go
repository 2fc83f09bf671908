package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MeetingScheduled  = "scheduled"
	MeetingInProgress = "in_progress"
	MeetingCompleted  = "completed"
	MeetingCancelled  = "cancelled"
)

// MeetingPlatforms are the platforms a meeting can be scheduled on.
var MeetingPlatforms = []string{"google-meet", "zoom", "microsoft-teams", "phone", "in-person", "other"}

// ContactRequest is a cross-role outreach record. Exactly one of PitchID /
// InvestorPostID is set, and that reference decides the conversation
// direction: a pitch means the investor reached out to the pitch's
// developer, an investor post means the developer reached out to the
// post's investor.
type ContactRequest struct {
	ID             string        `json:"id" gorm:"primaryKey;size:50"`
	DeveloperID    string        `json:"developer_id" gorm:"size:50;index;not null"`
	Developer      User          `json:"developer" gorm:"foreignKey:DeveloperID;references:ID"`
	InvestorID     string        `json:"investor_id" gorm:"size:50;index;not null"`
	Investor       User          `json:"investor" gorm:"foreignKey:InvestorID;references:ID"`
	PitchID        *string       `json:"pitch_id" gorm:"size:50;index"`
	Pitch          *Pitch        `json:"pitch" gorm:"foreignKey:PitchID;references:ID"`
	InvestorPostID *string       `json:"investor_post_id" gorm:"size:50;index"`
	InvestorPost   *InvestorPost `json:"investor_post" gorm:"foreignKey:InvestorPostID;references:ID"`
	Message        string        `json:"message" gorm:"type:text;not null"`
	MeetingLink    string        `json:"meeting_link" gorm:"type:text"`
	Preference     string        `json:"preference" gorm:"size:10;default:'email'"` // email, phone, dm
	Viewed         bool          `json:"viewed" gorm:"default:false"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"-"`

	// Scheduling
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	Timezone           string     `json:"timezone" gorm:"size:50;default:'UTC'"`
	MeetingPlatform    string     `json:"meeting_platform" gorm:"size:20;default:'google-meet'"`
	Agenda             string     `json:"agenda" gorm:"type:text"`

	// Lifecycle
	MeetingStatus    string     `json:"meeting_status" gorm:"size:20;default:'scheduled';index"`
	MeetingStartedAt *time.Time `json:"meeting_started_at"`
	MeetingEndedAt   *time.Time `json:"meeting_ended_at"`
	MeetingSummary   string     `json:"meeting_summary" gorm:"type:text"`

	StructuredSummary *MeetingSummary `json:"structured_summary" gorm:"foreignKey:ContactRequestID;references:ID"`
}

func (r *ContactRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// SenderID returns the user who initiated the request per the direction rule.
func (r *ContactRequest) SenderID() string {
	if r.PitchID != nil {
		return r.InvestorID
	}
	return r.DeveloperID
}

// ReceiverID returns the user the request was addressed to.
func (r *ContactRequest) ReceiverID() string {
	if r.PitchID != nil {
		return r.DeveloperID
	}
	return r.InvestorID
}

// IsParticipant reports whether the given user is on either side of the request.
func (r *ContactRequest) IsParticipant(userID string) bool {
	return userID == r.DeveloperID || userID == r.InvestorID
}

// ContextTitle is the title of the listing the request was made against.
func (r *ContactRequest) ContextTitle() string {
	if r.Pitch != nil {
		return r.Pitch.Title
	}
	if r.InvestorPost != nil {
		return r.InvestorPost.Title
	}
	return ""
}
