package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"family_expenses/internal/api/handlers"
	"family_expenses/internal/models"
	"family_expenses/internal/repositories/sqlconnect"
	"family_expenses/pkg/utils"
)

// FUNC TO LIST USERS
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
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

	query := `SELECT id, first_name, last_name, email, role_id, group_id, is_blocked,
		DATE_FORMAT(last_login, '%Y-%m-%d %H:%i:%s'),
		DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
		FROM users`
	var args []interface{}

	if groupIDParam := r.URL.Query().Get("groupid"); groupIDParam != "" {
		groupID, err := strconv.Atoi(groupIDParam)
		if err != nil {
			utils.WriteError(w, "invalid groupid", http.StatusBadRequest)
			return
		}
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to query users: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.RoleID, &u.GroupID, &u.IsBlocked, &u.LastLogin, &u.CreatedAt); err != nil {
			utils.Logger.Errorf("failed to scan user: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(users),
		"data":   users,
	})
}

// FUNC TO CREATE A USER
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
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
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=6"`
		RoleID    int    `json:"role_id"`
		GroupID   int    `json:"group_id" validate:"required"`
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
		utils.WriteError(w, fmt.Sprintf("validation failed: %v", err), http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(req.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	res, err := db.Exec(`
		INSERT INTO users (first_name, last_name, email, password, role_id, group_id, is_blocked)
		VALUES (?, ?, ?, ?, ?, ?, FALSE)
	`, req.FirstName, req.LastName, req.Email, string(hashedPassword), req.RoleID, req.GroupID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "email already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error creating user", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "user created successfully",
		"data": map[string]interface{}{
			"id":         id,
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"email":      req.Email,
			"role_id":    req.RoleID,
			"group_id":   req.GroupID,
		},
	}, http.StatusCreated)
}

// FUNC TO UPDATE A USER
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
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

	userID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	type request struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email" validate:"omitempty,email"`
		RoleID    *int    `json:"role_id"`
		GroupID   *int    `json:"group_id"`
		IsBlocked *bool   `json:"is_blocked"`
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
		utils.WriteError(w, fmt.Sprintf("validation failed: %v", err), http.StatusBadRequest)
		return
	}

	var sets []string
	var args []interface{}
	if req.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *req.FirstName)
	}
	if req.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *req.LastName)
	}
	if req.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(*req.Email))
	}
	if req.RoleID != nil {
		sets = append(sets, "role_id = ?")
		args = append(args, *req.RoleID)
	}
	if req.GroupID != nil {
		sets = append(sets, "group_id = ?")
		args = append(args, *req.GroupID)
	}
	if req.IsBlocked != nil {
		sets = append(sets, "is_blocked = ?")
		args = append(args, *req.IsBlocked)
	}

	if len(sets) == 0 {
		utils.WriteError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	args = append(args, userID)
	result, err := db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "email already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to update user %d: %v", userID, err)
		utils.WriteError(w, "error updating user", http.StatusInternalServerError)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "user updated successfully",
	})
}

// FUNC TO DELETE A USER
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	userID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	result, err := db.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		utils.Logger.Errorf("failed to delete user %d: %v", userID, err)
		utils.WriteError(w, "error deleting user", http.StatusInternalServerError)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "user deleted successfully",
	})
}
