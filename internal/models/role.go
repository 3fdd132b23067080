package models

import "database/sql"

// AdminRoleID is the reserved role for user/group/role administration.
const AdminRoleID = 0

type Role struct {
	ID        int            `json:"id" db:"id"`
	Name      string         `json:"name,omitempty" db:"name,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
