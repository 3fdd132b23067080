package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	aRouter := adminRouter()
	mux.Handle("/admin/", aRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses", eRouter)
	mux.Handle("/expenses/", eRouter)

	sRouter := summaryRouter()
	mux.Handle("/summary/", sRouter)

	return mux
}
