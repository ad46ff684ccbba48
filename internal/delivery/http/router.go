package http

import (
	"net/http"

	"bloodbank-inventory/internal/delivery/http/handler"
	"bloodbank-inventory/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	bagHandler      *handler.BagHandler
	issuanceHandler *handler.IssuanceHandler
	requestHandler  *handler.RequestHandler
	donorHandler    *handler.DonorHandler
	stockHandler    *handler.StockHandler
	auditLogHandler *handler.AuditLogHandler
	sessionHandler  *handler.SessionHandler
	metricsHandler  http.Handler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	bagHandler *handler.BagHandler,
	issuanceHandler *handler.IssuanceHandler,
	requestHandler *handler.RequestHandler,
	donorHandler *handler.DonorHandler,
	stockHandler *handler.StockHandler,
	auditLogHandler *handler.AuditLogHandler,
	sessionHandler *handler.SessionHandler,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		bagHandler:      bagHandler,
		issuanceHandler: issuanceHandler,
		requestHandler:  requestHandler,
		donorHandler:    donorHandler,
		stockHandler:    stockHandler,
		auditLogHandler: auditLogHandler,
		sessionHandler:  sessionHandler,
		metricsHandler:  metricsHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check and metrics (public)
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// Any authenticated caller
	member := api.NewRoute().Subrouter()
	member.Use(r.authMiddleware.Authenticate)
	member.HandleFunc("/stock", r.stockHandler.GetSummary).Methods(http.MethodGet)
	member.HandleFunc("/requests", r.requestHandler.CreateRequest).Methods(http.MethodPost)
	member.HandleFunc("/requests", r.requestHandler.FindOpenRequests).Methods(http.MethodGet)
	member.HandleFunc("/requests/{id}", r.requestHandler.GetRequest).Methods(http.MethodGet)
	member.HandleFunc("/donors/{id}/eligibility", r.donorHandler.GetEligibility).Methods(http.MethodGet)

	// Blood bank staff
	staff := api.PathPrefix("/admin").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Bag ledger
	staff.HandleFunc("/bags", r.bagHandler.AddBag).Methods(http.MethodPost)
	staff.HandleFunc("/bags", r.bagHandler.ListBags).Methods(http.MethodGet)
	staff.HandleFunc("/bags/compatible", r.bagHandler.FindCompatibleBags).Methods(http.MethodGet)
	staff.HandleFunc("/bags/expire", r.bagHandler.ExpireOverdue).Methods(http.MethodPost)
	staff.HandleFunc("/bags/{id}", r.bagHandler.GetBag).Methods(http.MethodGet)
	staff.HandleFunc("/bags/{id}/status", r.bagHandler.UpdateStatus).Methods(http.MethodPut)

	// Collections and issuances
	staff.HandleFunc("/collections", r.issuanceHandler.RecordCollection).Methods(http.MethodPost)
	staff.HandleFunc("/issuances", r.issuanceHandler.IssueBag).Methods(http.MethodPost)
	staff.HandleFunc("/issuances", r.issuanceHandler.ListIssuances).Methods(http.MethodGet)
	staff.HandleFunc("/issuances/{id}", r.issuanceHandler.GetIssuance).Methods(http.MethodGet)

	// Requests and donors
	staff.HandleFunc("/requests/{id}/close", r.requestHandler.CloseRequest).Methods(http.MethodPut)
	staff.HandleFunc("/donors", r.donorHandler.CreateDonor).Methods(http.MethodPost)
	staff.HandleFunc("/donors/{id}", r.donorHandler.GetDonor).Methods(http.MethodGet)

	// Admin only
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/requests/{id}/override", r.requestHandler.OverrideStatus).Methods(http.MethodPut)
	admin.HandleFunc("/stock/reconcile", r.stockHandler.Reconcile).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/operators/{id}/sessions", r.sessionHandler.RevokeSessions).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
