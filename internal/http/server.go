package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mauv0809/tennis-ledger/internal/config"
	"github.com/mauv0809/tennis-ledger/internal/metrics"
	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/recorder"
	"github.com/mauv0809/tennis-ledger/internal/resolver"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/stats"
)

func NewServer(rec *recorder.Recorder, res *resolver.Resolver, dir *resolver.Directory, statsSvc *stats.Service, notifier notifier.Notifier, pubsubClient pubsub.PubSubClient, sessions session.Provider, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Recorder:       rec,
		Resolver:       res,
		Directory:      dir,
		Stats:          statsSvc,
		Notifier:       notifier,
		PubSub:         pubsubClient,
		Sessions:       sessions,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         mux.NewRouter(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Routes that act on a user's matches also get userMiddleware.
	public := func(h http.Handler) http.Handler {
		return Chain(h, recoveryMiddleware, paramsMiddleware)
	}
	owned := func(h http.Handler) http.Handler {
		return Chain(h, recoveryMiddleware, paramsMiddleware, userMiddleware)
	}

	s.Router.Handle("/metrics", s.MetricsHandler).Methods(http.MethodGet)
	s.Router.Handle("/health", public(s.HealthCheckHandler())).Methods(http.MethodGet)

	s.Router.Handle("/players", public(s.ListPlayersHandler())).Methods(http.MethodGet)
	s.Router.Handle("/players/resolve", public(s.ResolvePlayerHandler())).Methods(http.MethodPost)
	s.Router.Handle("/players/{id}", public(s.UpdatePlayerHandler())).Methods(http.MethodPut)
	s.Router.Handle("/players/{id}", public(s.DeletePlayerHandler())).Methods(http.MethodDelete)
	s.Router.Handle("/venues", public(s.ListVenuesHandler())).Methods(http.MethodGet)
	s.Router.Handle("/venues/resolve", public(s.ResolveVenueHandler())).Methods(http.MethodPost)
	s.Router.Handle("/venues/{id}", public(s.UpdateVenueHandler())).Methods(http.MethodPut)
	s.Router.Handle("/venues/{id}", public(s.DeleteVenueHandler())).Methods(http.MethodDelete)

	s.Router.Handle("/profile", owned(s.GetProfileHandler())).Methods(http.MethodGet)
	s.Router.Handle("/profile", owned(s.SetupProfileHandler())).Methods(http.MethodPut)

	s.Router.Handle("/matches", owned(s.ListMatchesHandler())).Methods(http.MethodGet)
	s.Router.Handle("/matches", owned(s.RecordMatchHandler())).Methods(http.MethodPost)
	s.Router.Handle("/matches", owned(s.DeleteAllMatchesHandler())).Methods(http.MethodDelete)
	s.Router.Handle("/matches/{id}", owned(s.GetMatchHandler())).Methods(http.MethodGet)
	s.Router.Handle("/matches/{id}", owned(s.ReviseMatchHandler())).Methods(http.MethodPut)
	s.Router.Handle("/matches/{id}", owned(s.DeleteMatchHandler())).Methods(http.MethodDelete)

	s.Router.Handle("/stats", owned(s.StatsHandler())).Methods(http.MethodGet)
	s.Router.Handle("/stats/share", owned(s.ShareStatsHandler())).Methods(http.MethodPost)

	// Pub/Sub push subscription for match events.
	s.Router.Handle("/pubsub/match-events", public(s.MatchEventHandler())).Methods(http.MethodPost)

	s.Router.Handle("/cost", public(s.CostHandler())).Methods(http.MethodPost)
	s.Router.Handle("/validate", public(s.ValidateHandler())).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
