package web

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"ragadmin/internal/web/handlers"
	"ragadmin/internal/web/middleware"
	"ragadmin/internal/web/webcontext"
)

type Dependencies struct {
	AuthHandler           *handlers.AuthHandler
	DashboardHandler      *handlers.DashboardHandler
	UsersHandler          *handlers.UsersHandler
	LicensesHandler       *handlers.LicensesHandler
	KnowledgeBasesHandler *handlers.KnowledgeBasesHandler
	ConfigurationHandler  *handlers.ConfigurationHandler
	Guard                 *middleware.Guard
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Login entry point; everything else requires a session.
	router.GET("/login", wrap(deps.AuthHandler.ShowLogin))
	router.POST("/login", wrap(deps.AuthHandler.Login))
	router.POST("/logout", wrap(deps.AuthHandler.Logout))

	guard := deps.Guard

	router.GET("/", chain(deps.DashboardHandler.Home, guard.Handle))

	// User management
	router.GET("/users", chain(deps.UsersHandler.List, guard.Handle))
	router.POST("/users", chain(deps.UsersHandler.Create, guard.Handle))
	router.POST("/users/:user_id", chain(deps.UsersHandler.Update, guard.Handle))
	router.POST("/users/:user_id/delete", chain(deps.UsersHandler.Delete, guard.Handle))

	// License management
	router.GET("/licenses", chain(deps.LicensesHandler.List, guard.Handle))
	router.POST("/licenses", chain(deps.LicensesHandler.Create, guard.Handle))
	router.POST("/licenses/:license_id/toggle", chain(deps.LicensesHandler.Toggle, guard.Handle))

	// Knowledge base management. The attach action lives at /attach
	// because httprouter does not mix static and parameter segments under
	// the same prefix.
	router.GET("/knowledge-bases", chain(deps.KnowledgeBasesHandler.List, guard.Handle))
	router.POST("/knowledge-bases", chain(deps.KnowledgeBasesHandler.Create, guard.Handle))
	router.POST("/knowledge-bases/:kb_id/update", chain(deps.KnowledgeBasesHandler.Update, guard.Handle))
	router.POST("/knowledge-bases/:kb_id/delete", chain(deps.KnowledgeBasesHandler.Delete, guard.Handle))
	router.POST("/knowledge-bases/:kb_id/upload", chain(deps.KnowledgeBasesHandler.Upload, guard.Handle))
	router.POST("/attach", chain(deps.KnowledgeBasesHandler.Attach, guard.Handle))

	// AI configuration
	router.GET("/configuration", chain(deps.ConfigurationHandler.Show, guard.Handle))
	router.POST("/configuration", chain(deps.ConfigurationHandler.Save, guard.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), webcontext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
