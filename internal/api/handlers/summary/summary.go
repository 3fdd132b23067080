// Package summary exposes the monthly settlement endpoints: the live
// summary, month closure and the closed-month history.
package summary

import (
	"errors"
	"net/http"
	"strconv"

	"family_expenses/internal/api/handlers"
	"family_expenses/internal/settlement"
	"family_expenses/pkg/utils"
)

// Engine is wired at startup, before the router is mounted.
var Engine *settlement.Engine

func pathPeriod(r *http.Request) (groupID, year, month int, err error) {
	groupID, err = strconv.Atoi(r.PathValue("groupId"))
	if err != nil {
		return 0, 0, 0, errors.New("invalid group id")
	}
	year, err = strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return 0, 0, 0, errors.New("invalid year")
	}
	month, err = strconv.Atoi(r.PathValue("month"))
	if err != nil {
		return 0, 0, 0, errors.New("invalid month")
	}
	return groupID, year, month, nil
}

func writeSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settlement.ErrAlreadyClosed):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, settlement.ErrInsufficientMembers),
		errors.Is(err, settlement.ErrGroupResolution):
		utils.WriteError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, settlement.ErrInvalidPeriod):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.Logger.Errorf("settlement error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// FUNC TO GET THE MONTHLY SUMMARY
func GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, year, month, err := pathPeriod(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handlers.CanAccessGroup(r, groupID) {
		utils.WriteError(w, "cannot view another group's summary", http.StatusForbidden)
		return
	}

	s, err := Engine.Summarize(r.Context(), groupID, year, month)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   s,
	})
}

// FUNC TO CLOSE A MONTH
func CloseMonthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, year, month, err := pathPeriod(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handlers.CanAccessGroup(r, groupID) {
		utils.WriteError(w, "cannot close another group's month", http.StatusForbidden)
		return
	}

	closure, err := Engine.Close(r.Context(), groupID, year, month)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	utils.Logger.Infof("month %s closed for group %d", closure.MonthKey, groupID)

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status":  "success",
		"message": "month closed successfully",
		"data":    closure,
	}, http.StatusCreated)
}

// FUNC TO LIST CLOSED MONTHS
//
// ?last=true returns only the most recently closed month, which the client
// uses as the landing view.
func ClosedMonthsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	groupID, err := strconv.Atoi(r.PathValue("groupId"))
	if err != nil {
		utils.WriteError(w, "invalid group id", http.StatusBadRequest)
		return
	}

	if !handlers.CanAccessGroup(r, groupID) {
		utils.WriteError(w, "cannot view another group's closures", http.StatusForbidden)
		return
	}

	closures, err := Engine.ClosedMonths(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	if r.URL.Query().Get("last") == "true" {
		if len(closures) == 0 {
			utils.WriteError(w, "no closed months for this group", http.StatusNotFound)
			return
		}
		utils.WriteJSON(w, map[string]interface{}{
			"status": "success",
			"data":   closures[0],
		})
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(closures),
		"data":   closures,
	})
}
