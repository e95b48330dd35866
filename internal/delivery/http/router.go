package http

import (
	"net/http"

	"go-healthcare-records/internal/delivery/http/handler"
	"go-healthcare-records/internal/delivery/http/middleware"
	"go-healthcare-records/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	recordHandler   *handler.RecordHandler
	reportHandler   *handler.ReportHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

// NewRouter wires the HTTP surface. auditLogHandler may be nil when audit
// rows are not persisted.
func NewRouter(
	authHandler *handler.AuthHandler,
	recordHandler *handler.RecordHandler,
	reportHandler *handler.ReportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		recordHandler:   recordHandler,
		reportHandler:   reportHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Reports (admin or doctor)
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(r.authMiddleware.Authenticate)
	reports.Use(middleware.RequireAdminOrDoctor)
	reports.HandleFunc("/dashboard", r.reportHandler.Dashboard).Methods(http.MethodGet)
	reports.HandleFunc("/medicines/low-stock", r.reportHandler.LowStockMedicines).Methods(http.MethodGet)
	reports.HandleFunc("/medicines/expired", r.reportHandler.ExpiredMedicines).Methods(http.MethodGet)

	// Audit trail (admin)
	if r.auditLogHandler != nil {
		audit := api.PathPrefix("/audit-logs").Subrouter()
		audit.Use(r.authMiddleware.Authenticate)
		audit.Use(middleware.RequireAdmin)
		audit.HandleFunc("", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
		audit.HandleFunc("/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	}

	// Records, read by any authenticated user
	read := api.NewRoute().Subrouter()
	read.Use(r.authMiddleware.Authenticate)
	read.HandleFunc("/{kind}", r.recordHandler.List).Methods(http.MethodGet)
	read.HandleFunc("/{kind}/{id}", r.recordHandler.Get).Methods(http.MethodGet)

	// Records, written by admins
	write := api.NewRoute().Subrouter()
	write.Use(r.authMiddleware.Authenticate)
	write.Use(middleware.RequireAdmin)
	write.HandleFunc("/{kind}", r.recordHandler.Create).Methods(http.MethodPost)
	write.HandleFunc("/{kind}/{id}", r.recordHandler.Update).Methods(http.MethodPut, http.MethodPatch)
	write.HandleFunc("/{kind}/{id}", r.recordHandler.Delete).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
