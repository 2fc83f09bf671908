package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleDeveloper = "developer"
	RoleInvestor  = "investor"
	RoleAdmin     = "admin"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:50"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Username  string    `json:"username" gorm:"size:150"`
	Password  string    `json:"-"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:'developer';index"` // developer, investor, admin
	Status    string    `json:"status" gorm:"type:varchar(10);default:'pending';index"` // pending, approved, rejected
	AvatarURL string    `json:"avatar_url" gorm:"type:text"`
	Location  string    `json:"location" gorm:"size:120"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type DeveloperProfile struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"user_id" gorm:"size:50;uniqueIndex;not null"`
	User      User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Title     string         `json:"title" gorm:"size:120"`
	Bio       string         `json:"bio" gorm:"size:300"`
	Skills    datatypes.JSON `json:"skills"`
	Github    string         `json:"github" gorm:"size:255"`
	Linkedin  string         `json:"linkedin" gorm:"size:255"`
	Portfolio string         `json:"portfolio" gorm:"size:255"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

type InvestorProfile struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	UserID            string         `json:"user_id" gorm:"size:50;uniqueIndex;not null"`
	User              User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Firm              string         `json:"firm" gorm:"size:150"`
	InvestorType      string         `json:"investor_type" gorm:"size:50"`
	ContactPreference string         `json:"contact_preference" gorm:"size:20;default:'email'"`
	Stages            datatypes.JSON `json:"stages"`
	Sectors           datatypes.JSON `json:"sectors"`
	Linkedin          string         `json:"linkedin" gorm:"size:255"`
	Website           string         `json:"website" gorm:"size:255"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
}

// Custom JSON marshaling so JSON list columns render as arrays, never raw bytes
func (p *DeveloperProfile) MarshalJSON() ([]byte, error) {
	type Alias DeveloperProfile
	aux := &struct {
		Skills []string `json:"skills"`
		*Alias
	}{
		Skills: []string{},
		Alias:  (*Alias)(p),
	}

	if p.Skills != nil {
		var skills []string
		if err := json.Unmarshal(p.Skills, &skills); err == nil {
			aux.Skills = skills
		}
	}

	return json.Marshal(aux)
}

func (p *InvestorProfile) MarshalJSON() ([]byte, error) {
	type Alias InvestorProfile
	aux := &struct {
		Stages  []string `json:"stages"`
		Sectors []string `json:"sectors"`
		*Alias
	}{
		Stages:  []string{},
		Sectors: []string{},
		Alias:   (*Alias)(p),
	}

	if p.Stages != nil {
		var stages []string
		if err := json.Unmarshal(p.Stages, &stages); err == nil {
			aux.Stages = stages
		}
	}

	if p.Sectors != nil {
		var sectors []string
		if err := json.Unmarshal(p.Sectors, &sectors); err == nil {
			aux.Sectors = sectors
		}
	}

	return json.Marshal(aux)
}
