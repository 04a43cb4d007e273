package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the lifecycle state of an access request.
// Pending is the only state a request can be created in; Approved and
// Rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// Terminal reports whether no further transition is defined from the status.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseDecision accepts only the two terminal statuses a reviewer may apply.
func ParseDecision(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case StatusApproved, StatusRejected:
		return RequestStatus(s), true
	}
	return "", false
}

// AccessRequest links one requesting user to one software entry at one
// requested access level. The access type is validated against the software's
// access-level set once, at creation time. RESTRICT constraints reject
// deleting a user or software while requests still reference it.
type AccessRequest struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User          `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	SoftwareID uuid.UUID     `gorm:"type:uuid;not null;index" json:"software_id"`
	Software   Software      `gorm:"foreignKey:SoftwareID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	AccessType AccessLevel   `gorm:"type:varchar(20);not null" json:"access_type"`
	Reason     string        `gorm:"type:text" json:"reason"`
	Status     RequestStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *AccessRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
