package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessLevel is the granularity of permission that can be requested against
// a software entry.
type AccessLevel string

const (
	AccessRead  AccessLevel = "Read"
	AccessWrite AccessLevel = "Write"
	AccessAdmin AccessLevel = "Admin"
)

// ParseAccessLevel maps a raw string onto the closed access-level set.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch AccessLevel(s) {
	case AccessRead, AccessWrite, AccessAdmin:
		return AccessLevel(s), true
	}
	return "", false
}

// AccessLevelList is the set of permitted levels on a software entry,
// persisted as a JSON column. Logical set semantics: order is not meaningful
// and duplicates are collapsed on input.
type AccessLevelList []AccessLevel

// Contains reports set membership.
func (l AccessLevelList) Contains(level AccessLevel) bool {
	for _, v := range l {
		if v == level {
			return true
		}
	}
	return false
}

// Software is a registered catalog entry declaring which access levels may
// be requested against it. Catalog entries are created by admins and never
// mutated or deleted.
type Software struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	AccessLevels AccessLevelList `gorm:"serializer:json;type:jsonb;not null" json:"access_levels"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Software) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
