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
	"github.com/mauv0809/tennis-ledger/internal/scoring"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

type Server struct {
	Recorder       *recorder.Recorder
	Resolver       *resolver.Resolver
	Directory      *resolver.Directory
	Stats          *stats.Service
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Sessions       session.Provider
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *mux.Router
}

type nameRequest struct {
	Name string `json:"name"`
}

type costRequest struct {
	Location   string           `json:"location"`
	Duration   tennis.FormValue `json:"duration"`
	UseLights  bool             `json:"useLights"`
	UseHeating bool             `json:"useHeating"`
	IsGuest    bool             `json:"isGuest"`
}

type costResponse struct {
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
	// Computed is false when the venue is unknown or has no member rate.
	Computed bool `json:"computed"`
}

type validateRequest struct {
	Sets []tennis.SetInput `json:"sets"`
}

// validateResponse carries every warning plus the last one on its own.
type validateResponse struct {
	Warnings []scoring.Warning `json:"warnings"`
	Warning  string            `json:"warning"`
}

type matchResponse struct {
	Match    *tennis.Match     `json:"match"`
	Warnings []scoring.Warning `json:"warnings"`
	Warning  string            `json:"warning"`
}

type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// pushRequest is the envelope of a Pub/Sub push delivery. Data is the
// base64 of the published msgpack payload.
type pushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}
