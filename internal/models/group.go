package models

import "database/sql"

type Group struct {
	ID        int            `json:"id" db:"id"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
