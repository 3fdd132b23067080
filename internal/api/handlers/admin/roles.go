package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"family_expenses/internal/api/handlers"
	"family_expenses/internal/models"
	"family_expenses/internal/repositories/sqlconnect"
	"family_expenses/pkg/utils"
)

// FUNC TO LIST ROLES
func ListRolesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if !handlers.IsAdmin(r) {
		utils.WriteError(w, "admin access required", http.StatusForbidden)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows, err := db.Query("SELECT id, name, DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s') FROM roles ORDER BY id")
	if err != nil {
		utils.Logger.Errorf("failed to query roles: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			utils.Logger.Errorf("failed to scan role: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(roles),
		"data":   roles,
	})
}

// FUNC TO CREATE A ROLE
//
// Role ids follow the same max(id)+1 scheme as groups, except the sequence
// starts at 0 so the first role created is the admin role.
func CreateRoleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if !handlers.IsAdmin(r) {
		utils.WriteError(w, "admin access required", http.StatusForbidden)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		Name string `json:"name" validate:"required"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := handlers.Validate.Struct(req); err != nil {
		utils.WriteError(w, "role name is required", http.StatusBadRequest)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var nextID int
	if err := tx.QueryRow("SELECT COALESCE(MAX(id) + 1, 0) FROM roles").Scan(&nextID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to compute next role id: %v", err)
		utils.WriteError(w, "error creating role", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec("INSERT INTO roles (id, name) VALUES (?, ?)", nextID, req.Name); err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "role already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert role: %v", err)
		utils.WriteError(w, "error creating role", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "role created successfully",
		"data":    models.Role{ID: nextID, Name: req.Name},
	}, http.StatusCreated)
}
