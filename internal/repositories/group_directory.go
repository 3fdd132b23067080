package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"family_expenses/internal/settlement"
)

// GroupDirectory resolves which user identities belong to a group. Member
// order is stable (ascending id) so the summary always lists the same
// member first.
type GroupDirectory struct {
	DB *sql.DB
}

func NewGroupDirectory(db *sql.DB) *GroupDirectory {
	return &GroupDirectory{DB: db}
}

func (d *GroupDirectory) Members(ctx context.Context, groupID int) ([]settlement.Member, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, first_name, email
		FROM users
		WHERE group_id = ?
		ORDER BY id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []settlement.Member
	for rows.Next() {
		var m settlement.Member
		if err := rows.Scan(&m.ID, &m.FirstName, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group members: %w", err)
	}
	return members, nil
}
