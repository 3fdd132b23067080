package routers

import (
	"net/http"

	"family_expenses/internal/api/handlers/summary"
)

func summaryRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/summary/{groupId}/closed", summary.ClosedMonthsHandler)

	mux.HandleFunc("/summary/{groupId}/{year}/{month}", summary.GetSummaryHandler)

	mux.HandleFunc("/summary/{groupId}/{year}/{month}/close", summary.CloseMonthHandler)

	return mux
}
