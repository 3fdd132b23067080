package routers

import (
	"net/http"

	"family_expenses/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses", expenses.ListExpensesHandler)
	mux.HandleFunc("/expenses/create", expenses.CreateExpensesHandler)

	return mux
}
