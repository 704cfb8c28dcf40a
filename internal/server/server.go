package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/metrics"
	"github.com/AshfaaqK/JLTV-rankngs/internal/middleware"
	"github.com/AshfaaqK/JLTV-rankngs/internal/service"

	"github.com/rs/zerolog"
)

// RankingServer exposes the rating engine as JSON over HTTP. It only
// translates between the wire and the services.
type RankingServer struct {
	history   *service.HistoryService
	standings *service.StandingsService
	balance   *service.BalanceService
	metrics   *metrics.Metrics
	db        *sql.DB
	logger    zerolog.Logger
}

func NewRankingServer(
	history *service.HistoryService,
	standings *service.StandingsService,
	balance *service.BalanceService,
	m *metrics.Metrics,
	db *sql.DB,
	logger zerolog.Logger,
) *RankingServer {
	return &RankingServer{history: history, standings: standings, balance: balance, metrics: m, db: db, logger: logger}
}

func (s *RankingServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"POST /api/players", s.addPlayer},
		{"GET /api/players/{id}", s.getPlayer},
		{"POST /api/matches", s.submitMatch},
		{"DELETE /api/matches/{id}", s.deleteMatch},
		{"GET /api/matches/{id}", s.getMatch},
		{"GET /api/games", s.gameLog},
		{"POST /api/teams/balance", s.balanceTeams},
		{"GET /api/standings/current", s.currentStandings},
		{"GET /api/standings/seasons/{id}", s.seasonStandings},
		{"GET /api/standings/lifetime", s.lifetimeStandings},
		{"GET /api/overview", s.overview},
		{"POST /api/seasons/current/rebuild", s.rebuildSeason},
		{"GET /api/events", s.events},
		{"GET /healthz", s.healthz},
	}
	for _, r := range routes {
		mux.Handle(r.pattern, s.instrument(r.pattern, r.handler))
	}
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *RankingServer) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.Request(route, rec.status)
	})
}

func (s *RankingServer) addPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	player, err := s.history.AddPlayer(r.Context(), req.Name, req.SeedRating)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerView(*player))
}

func (s *RankingServer) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.standings.Player(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := playerDetailView{Player: toPlayerView(detail.Player), Tier: detail.Tier}
	if detail.Season != nil {
		sp := toSeasonPlayerView(*detail.Season)
		v.Season = &sp
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *RankingServer) submitMatch(w http.ResponseWriter, r *http.Request) {
	var req submitMatchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sub := service.Submission{MapName: req.MapName, Rounds: req.Rounds}
	for _, p := range req.Participants {
		sub.Participants = append(sub.Participants, domain.Participant{
			PlayerID: p.PlayerID,
			Kills:    p.Kills,
			Damage:   p.Damage,
			Won:      p.Won,
		})
	}

	res, err := s.history.SubmitMatch(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResultView(res))
}

func (s *RankingServer) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.history.DeleteMatch(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultView(res))
}

func (s *RankingServer) getMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.standings.Game(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := gameDetailView{Game: toGameView(detail.Game), Stats: make([]statView, len(detail.Stats))}
	for i, line := range detail.Stats {
		v.Stats[i] = toStatView(line.PlayerMatchStat, line.Name)
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *RankingServer) gameLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.standings.GameLog(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameLogView(log))
}

func (s *RankingServer) balanceTeams(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	splits, err := s.balance.BalanceTeams(r.Context(), req.PlayerIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]splitView, len(splits))
	for i, sp := range splits {
		out[i] = splitView{
			TeamA:      toMemberViews(sp.TeamA),
			TeamB:      toMemberViews(sp.TeamB),
			AverageA:   sp.AverageA,
			AverageB:   sp.AverageB,
			Difference: sp.Difference,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *RankingServer) currentStandings(w http.ResponseWriter, r *http.Request) {
	st, err := s.standings.CurrentStandings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStandingsView(st))
}

func (s *RankingServer) seasonStandings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.standings.SeasonStandings(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStandingsView(st))
}

func (s *RankingServer) lifetimeStandings(w http.ResponseWriter, r *http.Request) {
	st, err := s.standings.LifetimeStandings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStandingsView(st))
}

func (s *RankingServer) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.standings.Overview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]standingsView{
		"current":  toStandingsView(ov.Current),
		"lifetime": toStandingsView(ov.Lifetime),
	})
}

func (s *RankingServer) rebuildSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.history.RebuildSeason(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeasonView(season))
}

func (s *RankingServer) events(w http.ResponseWriter, r *http.Request) {
	limit := constants.EventListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a number", domain.ErrValidation))
			return
		}
		limit = n
	}
	events, err := s.standings.Events(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]eventView, len(events))
	for i, e := range events {
		out[i] = eventView{ID: e.ID, Kind: string(e.Kind), SeasonID: e.SeasonID, GameID: e.GameID, Detail: e.Detail, CreatedAt: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *RankingServer) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DatabaseTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		s.writeError(w, r, fmt.Errorf("database unavailable: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConsistency):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *RankingServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = http.StatusText(status)
	} else {
		logger.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}

	writeJSON(w, status, errorView{Error: msg, RequestID: middleware.GetRequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, r.PathValue("id"))
	}
	return id, nil
}
