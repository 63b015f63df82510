package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"careminder/internal/auth"
	"careminder/internal/repository"
	"careminder/internal/service"
)

// API bundles the HTTP handlers around the core services. The routes are thin
// plumbing; all temporal logic lives in the services and the rule engine.
type API struct {
	users       *repository.UserRepository
	tasks       *service.TaskService
	completions *service.CompletionService
	jwt         *auth.JWTService
}

func New(users *repository.UserRepository, tasks *service.TaskService, completions *service.CompletionService, jwt *auth.JWTService) *API {
	return &API{users: users, tasks: tasks, completions: completions, jwt: jwt}
}

// Router builds the route tree. Auth and health are open; everything else
// sits behind the JWT middleware.
func (a *API) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", a.handleHealth).Methods(http.MethodGet)

	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", a.handleRegister).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", a.handleLogin).Methods(http.MethodPost)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(a.jwtMiddleware)

	for prefix, kind := range taskRoutes {
		sub := apiRouter.PathPrefix(prefix).Subrouter()
		sub.HandleFunc("", a.handleListTasks(kind)).Methods(http.MethodGet)
		sub.HandleFunc("", a.handleCreateTask(kind)).Methods(http.MethodPost)
		sub.HandleFunc("/{task_uuid}", a.handleUpdateTask).Methods(http.MethodPatch)
		sub.HandleFunc("/{task_uuid}", a.handleDeleteTask).Methods(http.MethodDelete)
	}

	apiRouter.HandleFunc("/completions", a.handleRecordCompletion).Methods(http.MethodPost)
	apiRouter.HandleFunc("/completions/undo", a.handleUndoCompletion).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/fcm-token", a.handleUpdateFCMToken).Methods(http.MethodPost)

	return router
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "ok", nil)
}
