package models

import "time"

// AuditLog records every admin mutation (who, what, before/after).
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminUserID  string    `json:"admin_user_id" gorm:"size:50;index"`
	Action       string    `json:"action" gorm:"size:64;index"`
	ResourceType string    `json:"resource_type" gorm:"size:32;index"`
	ResourceID   string    `json:"resource_id" gorm:"size:50"`
	BeforeJSON   string    `json:"before_json" gorm:"type:text"`
	AfterJSON    string    `json:"after_json" gorm:"type:text"`
	IPAddress    string    `json:"ip_address" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}
