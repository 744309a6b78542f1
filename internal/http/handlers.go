package http

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/mauv0809/tennis-ledger/internal/cost"
	"github.com/mauv0809/tennis-ledger/internal/pubsub"
	"github.com/mauv0809/tennis-ledger/internal/recorder"
	"github.com/mauv0809/tennis-ledger/internal/resolver"
	"github.com/mauv0809/tennis-ledger/internal/scoring"
	"github.com/mauv0809/tennis-ledger/internal/session"
	"github.com/mauv0809/tennis-ledger/internal/stats"
	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ResolvePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := s.Resolver.ResolvePlayer(r.Context(), req.Name)
		if err != nil {
			writeError(w, err, "resolve player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) ResolveVenueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		venue, err := s.Resolver.ResolveVenue(r.Context(), req.Name)
		if err != nil {
			writeError(w, err, "resolve venue")
			return
		}
		writeJSON(w, http.StatusOK, venue)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Directory.ListPlayers(r.Context())
		if err != nil {
			writeError(w, err, "list players")
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) ListVenuesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venues, err := s.Directory.ListVenues(r.Context())
		if err != nil {
			writeError(w, err, "list venues")
			return
		}
		writeJSON(w, http.StatusOK, venues)
	}
}

func (s *Server) UpdateVenueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update resolver.VenueUpdate
		if !decodeJSON(w, r, &update) {
			return
		}
		venue, err := s.Directory.UpdateVenue(r.Context(), mux.Vars(r)["id"], update)
		if err != nil {
			writeError(w, err, "update venue")
			return
		}
		writeJSON(w, http.StatusOK, venue)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update resolver.PlayerUpdate
		if !decodeJSON(w, r, &update) {
			return
		}
		player, err := s.Directory.UpdatePlayer(r.Context(), mux.Vars(r)["id"], update)
		if err != nil {
			writeError(w, err, "update player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Directory.DeletePlayer(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeError(w, err, "delete player")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteVenueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Directory.DeleteVenue(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeError(w, err, "delete venue")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := session.Require(r.Context(), s.Sessions)
		if err != nil {
			writeError(w, err, "fetch profile")
			return
		}
		player, err := s.Directory.PlayerByUID(r.Context(), uid)
		if err != nil {
			writeError(w, err, "fetch profile")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

// SetupProfileHandler binds the signed-in user to a player. Blank player 1
// names on later matches default to this player's nickname.
func (s *Server) SetupProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := session.Require(r.Context(), s.Sessions)
		if err != nil {
			writeError(w, err, "save profile")
			return
		}
		var update resolver.PlayerUpdate
		if !decodeJSON(w, r, &update) {
			return
		}
		player, err := s.Resolver.SetupProfile(r.Context(), uid, update)
		if err != nil {
			writeError(w, err, "save profile")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input tennis.MatchInput
		if !decodeJSON(w, r, &input) {
			return
		}
		result, err := s.Recorder.Record(r.Context(), input)
		if err != nil {
			writeError(w, err, "save match")
			return
		}
		writeJSON(w, http.StatusCreated, newMatchResponse(result))
	}
}

func (s *Server) ReviseMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input tennis.MatchInput
		if !decodeJSON(w, r, &input) {
			return
		}
		result, err := s.Recorder.Revise(r.Context(), mux.Vars(r)["id"], input)
		if err != nil {
			writeError(w, err, "save match")
			return
		}
		writeJSON(w, http.StatusOK, newMatchResponse(result))
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Recorder.List(r.Context())
		if err != nil {
			writeError(w, err, "fetch matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Recorder.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err, "fetch match")
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Recorder.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			writeError(w, err, "delete match")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteAllMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.Recorder.DeleteAll(r.Context())
		if err != nil {
			writeError(w, err, "delete matches")
			return
		}
		writeJSON(w, http.StatusOK, deleteAllResponse{Deleted: n})
	}
}

// StatsHandler serves the owner's stats. A failed fetch still answers with
// the all-zero stats.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Stats.ForOwner(r.Context())
		if errors.Is(err, session.ErrUnauthenticated) {
			writeError(w, err, "compute stats")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) ShareStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.shareStats(r.Context())
		if err != nil {
			if errors.Is(err, errShareFailed) {
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to share stats"})
				return
			}
			writeError(w, err, "compute stats")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// MatchEventHandler consumes match events pushed by Pub/Sub and posts the
// owner's refreshed stats. Malformed deliveries get a 400; the
// subscription's dead-letter policy decides how often they are retried.
func (s *Server) MatchEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var push pushRequest
		if !decodeJSON(w, r, &push) {
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(push.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid base64 data"})
			return
		}
		var event pubsub.MatchEvent
		if err := s.PubSub.ProcessMessage(rawData, &event); err != nil || event.OwnerID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid match event"})
			return
		}
		log.Debug("Received match event", "event", push.Message.Attributes["event"], "matchID", event.MatchID, "owner", event.OwnerID)

		ctx := session.WithUser(r.Context(), event.OwnerID)
		if _, err := s.shareStats(ctx); err != nil {
			if errors.Is(err, errShareFailed) {
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to share stats"})
				return
			}
			writeError(w, err, "compute stats")
			return
		}
		w.Write([]byte("OK"))
	}
}

var errShareFailed = errors.New("sharing stats failed")

// shareStats computes the current user's stats and posts them under the
// user's profile nickname when there is one.
func (s *Server) shareStats(ctx context.Context) (stats.Stats, error) {
	owner, err := session.Require(ctx, s.Sessions)
	if err != nil {
		return stats.Default(), err
	}
	summary, err := s.Stats.ForOwner(ctx)
	if err != nil {
		return summary, err
	}
	name := owner
	if player, err := s.Directory.PlayerByUID(ctx, owner); err == nil && player.Nickname != "" {
		name = player.Nickname
	}
	if err := s.Notifier.SendStatsSummary(ctx, name, summary); err != nil {
		log.Error("Failed to share stats", "error", err, "owner", owner)
		return summary, fmt.Errorf("%w: %w", errShareFailed, err)
	}
	return summary, nil
}

// CostHandler previews the court cost for a form without saving anything.
// Unknown venues are not created.
func (s *Server) CostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req costRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		venue, err := s.Directory.FindVenueByName(r.Context(), req.Location)
		if err != nil {
			writeError(w, err, "compute cost")
			return
		}
		amount, ok := cost.Compute(venue, tennis.ParseDuration(req.Duration), req.UseLights, req.UseHeating, req.IsGuest)
		writeJSON(w, http.StatusOK, costResponse{Amount: amount, Text: cost.Format(amount), Computed: ok})
	}
}

func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		warnings := scoring.Validate(req.Sets)
		writeJSON(w, http.StatusOK, validateResponse{Warnings: warnings, Warning: lastWarning(warnings)})
	}
}

func newMatchResponse(result *recorder.RecordResult) matchResponse {
	return matchResponse{
		Match:    result.Match,
		Warnings: result.Warnings,
		Warning:  lastWarning(result.Warnings),
	}
}

func lastWarning(warnings []scoring.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	return warnings[len(warnings)-1].Message
}
