package routers

import (
	"net/http"

	"family_expenses/internal/api/handlers/admin"
)

func adminRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/admin/users", admin.ListUsersHandler)
	mux.HandleFunc("/admin/users/create", admin.CreateUserHandler)
	mux.HandleFunc("/admin/users/update/{id}", admin.UpdateUserHandler)
	mux.HandleFunc("/admin/users/delete/{id}", admin.DeleteUserHandler)

	mux.HandleFunc("/admin/groups", admin.ListGroupsHandler)
	mux.HandleFunc("/admin/groups/create", admin.CreateGroupHandler)

	mux.HandleFunc("/admin/roles", admin.ListRolesHandler)
	mux.HandleFunc("/admin/roles/create", admin.CreateRoleHandler)

	return mux
}
