package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the HTTP routes and CORS middleware around the handler.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", h.health).Methods(http.MethodGet)

	router.HandleFunc("/tasks", h.createTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks", h.listTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id:[0-9]+}", h.deleteTask).Methods(http.MethodDelete)

	router.HandleFunc("/schedule", h.scheduleTask).Methods(http.MethodPost)
	router.HandleFunc("/schedule/week/{week_start}", h.weekPlan).Methods(http.MethodGet)
	router.HandleFunc("/schedule/{date}", h.dayPlan).Methods(http.MethodGet)
	router.HandleFunc("/schedule/{task_id:[0-9]+}", h.unschedule).Methods(http.MethodDelete)

	return CORS(allowedOrigins)(router)
}
