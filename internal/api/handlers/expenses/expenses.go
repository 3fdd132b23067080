package expenses

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"family_expenses/internal/api/handlers"
	"family_expenses/internal/models"
	"family_expenses/internal/repositories"
	"family_expenses/internal/repositories/sqlconnect"
	"family_expenses/pkg/utils"
)

type expenseRequest struct {
	UserID      int    `json:"user_id"`
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	ExpenseDate string `json:"expense_date" validate:"required,datetime=2006-01-02"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Comments    string `json:"comments"`
}

// FUNC TO CREATE EXPENSES (accepts a batch, all or nothing)
func CreateExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	callerID, err := handlers.ClaimInt(r, "userId")
	if err != nil {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var reqs []expenseRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reqs); err != nil {
		utils.WriteError(w, "expected a JSON array of expenses", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(reqs) == 0 {
		utils.WriteError(w, "at least one expense is required", http.StatusBadRequest)
		return
	}

	batch := make([]models.Expense, 0, len(reqs))
	for i, req := range reqs {
		if err := handlers.Validate.Struct(req); err != nil {
			utils.WriteError(w, fmt.Sprintf("expense %d: validation failed: %v", i, err), http.StatusBadRequest)
			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || !amount.IsPositive() {
			utils.WriteError(w, fmt.Sprintf("expense %d: amount must be a positive number", i), http.StatusBadRequest)
			return
		}

		// Members record their own expenses; only admins may book for others.
		userID := req.UserID
		if userID == 0 {
			userID = callerID
		}
		if userID != callerID && !handlers.IsAdmin(r) {
			utils.WriteError(w, "cannot create expenses for another user", http.StatusForbidden)
			return
		}

		e := models.Expense{
			UserID:      userID,
			Description: req.Description,
			Amount:      amount,
			ExpenseDate: req.ExpenseDate,
		}
		if req.DueDate != "" {
			e.DueDate = sql.NullString{String: req.DueDate, Valid: true}
		}
		if req.Comments != "" {
			e.Comments = sql.NullString{String: req.Comments, Valid: true}
		}
		batch = append(batch, e)
	}

	store := repositories.NewExpenseStore(db)
	ids, err := store.CreateBatch(r.Context(), batch)
	if err != nil {
		utils.Logger.Errorf("failed to create expenses: %v", err)
		utils.WriteError(w, "error creating expenses", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("%d expense(s) created", len(ids)),
		"ids":     ids,
	}, http.StatusCreated)
}

// FUNC TO LIST EXPENSES
func ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	groupID, err := handlers.ClaimInt(r, "groupId")
	if err != nil {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if param := r.URL.Query().Get("groupid"); param != "" {
		requested, err := strconv.Atoi(param)
		if err != nil {
			utils.WriteError(w, "invalid groupid", http.StatusBadRequest)
			return
		}
		if !handlers.CanAccessGroup(r, requested) {
			utils.WriteError(w, "cannot list another group's expenses", http.StatusForbidden)
			return
		}
		groupID = requested
	}

	directory := repositories.NewGroupDirectory(db)
	members, err := directory.Members(r.Context(), groupID)
	if err != nil {
		utils.Logger.Errorf("failed to resolve group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	memberIDs := make([]int, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}
	if len(memberIDs) == 0 {
		utils.WriteJSON(w, map[string]interface{}{
			"status": "success",
			"count":  0,
			"data":   []models.Expense{},
		})
		return
	}

	filter := repositories.ExpenseFilter{
		MemberIDs: memberIDs,
		SortBy:    r.URL.Query().Get("sortby"),
		SortOrder: r.URL.Query().Get("sortorder"),
	}

	loc := handlers.Location()
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			utils.WriteError(w, "invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			utils.WriteError(w, "invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.To = t
	}

	page, limit := utils.GetPaginationParams(r)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	store := repositories.NewExpenseStore(db)
	list, err := store.ListFiltered(r.Context(), filter)
	if err != nil {
		utils.Logger.Errorf("failed to list expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(list),
		"page":   page,
		"limit":  limit,
		"data":   list,
	})
}
