package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ID is a uuid primary key. Postgres stores it natively, mysql as char(36) and sqlite as text.
type ID struct {
	uuid.UUID
}

func NewID() ID {
	return ID{UUID: uuid.New()}
}

// ParseID parses the canonical string form
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID{UUID: u}, nil
}

func (id ID) IsZero() bool {
	return id.UUID == uuid.Nil
}

// GormDBDataType picks the column type for the connected dialect
func (ID) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "uuid"
	case "mysql":
		return "char(36)"
	default:
		return "text"
	}
}
