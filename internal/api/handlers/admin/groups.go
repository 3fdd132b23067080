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

// FUNC TO LIST GROUPS
func ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.Query("SELECT id, name, DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s') FROM groups ORDER BY id")
	if err != nil {
		utils.Logger.Errorf("failed to query groups: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			utils.Logger.Errorf("failed to scan group: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(groups),
		"data":   groups,
	})
}

// FUNC TO CREATE A GROUP
//
// Group ids are small hand-assigned integers: the next id is max(id)+1,
// computed and inserted inside one transaction.
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}

	tx, err := db.Begin()
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var nextID int
	if err := tx.QueryRow("SELECT COALESCE(MAX(id) + 1, 1) FROM groups").Scan(&nextID); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to compute next group id: %v", err)
		utils.WriteError(w, "error creating group", http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec("INSERT INTO groups (id, name) VALUES (?, ?)", nextID, req.Name); err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "group already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert group: %v", err)
		utils.WriteError(w, "error creating group", http.StatusInternalServerError)
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
		"message": "group created successfully",
		"data":    models.Group{ID: nextID, Name: req.Name},
	}, http.StatusCreated)
}
