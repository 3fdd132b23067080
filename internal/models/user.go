package models

import "database/sql"

type User struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	FirstName string         `json:"first_name,omitempty" db:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty" db:"last_name,omitempty"`
	Email     string         `json:"email,omitempty" db:"email,omitempty"`
	Password  string         `json:"password,omitempty" db:"password,omitempty"`
	RoleID    int            `json:"role_id" db:"role_id"`
	GroupID   int            `json:"group_id,omitempty" db:"group_id,omitempty"`
	IsBlocked bool           `json:"is_blocked" db:"is_blocked"`
	LastLogin sql.NullString `json:"last_login,omitempty" db:"last_login,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
