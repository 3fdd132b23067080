package routers

import (
	"net/http"

	"family_expenses/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/login", auth.LoginHandler)
	mux.HandleFunc("/users/logout", auth.LogoutHandler)
	mux.HandleFunc("/users/updatepassword", auth.UpdatePasswordHandler)
	mux.HandleFunc("/users/resetpassword", auth.ResetPasswordHandler)

	return mux
}
