package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/api/handlers"
	"github.com/cbodonnell/tavernkeep/pkg/api/middleware"
	authproviders "github.com/cbodonnell/tavernkeep/pkg/auth/providers"
	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider authproviders.AuthProvider
	Repository   repositories.Repository
	Ledger       *ledger.Ledger
	Broker       *events.Broker
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handlers.HandleHealthz(opts.Repository)).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewAuthMiddleware(opts.AuthProvider))
	api.HandleFunc("/shop", handlers.HandleShopCatalogue()).Methods(http.MethodGet)
	api.HandleFunc("/skills", handlers.HandleSkillList()).Methods(http.MethodGet)

	community := api.PathPrefix("/communities/{communityID}").Subrouter()
	community.HandleFunc("/snapshot", middleware.RequireGM(handlers.HandleExportSnapshot(opts.Ledger))).Methods(http.MethodGet)
	community.HandleFunc("/snapshot", middleware.RequireGM(handlers.HandleImportSnapshot(opts.Ledger))).Methods(http.MethodPut)
	community.HandleFunc("/events", handlers.HandleEvents(opts.Broker)).Methods(http.MethodGet)

	member := community.PathPrefix("/members/{memberID}").Subrouter()
	member.HandleFunc("/character", handlers.HandleCreateCharacter(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/sheet", handlers.HandleGetSheet(opts.Ledger)).Methods(http.MethodGet)
	member.HandleFunc("/skills/allocate", handlers.HandleAllocateSkillPoints(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/rolls", handlers.HandleRollCheck(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/damage", handlers.HandleApplyDamage(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/heal", handlers.HandleApplyHeal(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/wallet", handlers.HandleWalletBalance(opts.Ledger)).Methods(http.MethodGet)
	member.HandleFunc("/wallet/debit", handlers.HandleWalletDebit(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/wallet/credit", middleware.RequireGM(handlers.HandleWalletCredit(opts.Ledger))).Methods(http.MethodPost)
	member.HandleFunc("/purchases", handlers.HandlePurchase(opts.Ledger)).Methods(http.MethodPost)
	member.HandleFunc("/items/grant", middleware.RequireGM(handlers.HandleGrantItem(opts.Ledger))).Methods(http.MethodPost)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
