// Package handlers holds helpers shared by the per-area handler packages:
// request validation and claim checks read from the request context.
package handlers

import (
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"family_expenses/internal/models"
	"family_expenses/pkg/utils"
)

var Validate = validator.New()

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the service time zone (TIMEZONE env var, UTC fallback).
// Calendar-month boundaries are computed in this zone everywhere.
func Location() *time.Location {
	locOnce.Do(func() {
		tz := os.Getenv("TIMEZONE")
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil || tz == "" {
			loc = time.UTC
		}
	})
	return loc
}

var ErrNoClaim = errors.New("claim missing from request context")

// ClaimInt reads a numeric JWT claim stashed in the request context. Claims
// decode as float64 because they pass through jwt.MapClaims.
func ClaimInt(r *http.Request, key string) (int, error) {
	v, ok := r.Context().Value(utils.ContextKey(key)).(float64)
	if !ok {
		return 0, ErrNoClaim
	}
	return int(v), nil
}

// IsAdmin reports whether the caller carries the admin role claim.
func IsAdmin(r *http.Request) bool {
	role, err := ClaimInt(r, "role")
	return err == nil && role == models.AdminRoleID
}

// CanAccessGroup allows admins everywhere and members only inside their own
// group.
func CanAccessGroup(r *http.Request, groupID int) bool {
	if IsAdmin(r) {
		return true
	}
	gid, err := ClaimInt(r, "groupId")
	return err == nil && gid == groupID
}
