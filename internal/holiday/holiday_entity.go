package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePublic     = "Public Holiday"
	TypeOptional   = "Optional Holiday"
	TypeRestricted = "Restricted Holiday"
	TypeFestival   = "Festival"
	TypeNational   = "National Holiday"
)

// Holiday is one calendar entry. Name plus date is unique so re-creating
// the same holiday for a year fails instead of duplicating it.
type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_holiday_name_date"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_name_date;index:idx_holidays_date"`

	Type        string `gorm:"type:varchar(30);not null;default:'Public Holiday'"`
	Description string `gorm:"type:text"`
	Year        int    `gorm:"type:int;not null;index:idx_holidays_year"`
	IsActive    bool   `gorm:"not null;default:true"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func validType(t string) bool {
	switch t {
	case TypePublic, TypeOptional, TypeRestricted, TypeFestival, TypeNational:
		return true
	}
	return false
}
