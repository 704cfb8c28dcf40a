package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/AshfaaqK/JLTV-rankngs/internal/config"
	"github.com/AshfaaqK/JLTV-rankngs/internal/constants"
	"github.com/AshfaaqK/JLTV-rankngs/internal/database"
	"github.com/AshfaaqK/JLTV-rankngs/internal/db"
	"github.com/AshfaaqK/JLTV-rankngs/internal/domain"
	"github.com/AshfaaqK/JLTV-rankngs/internal/ledger"
	"github.com/AshfaaqK/JLTV-rankngs/internal/metrics"
	"github.com/AshfaaqK/JLTV-rankngs/internal/repository"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type fixture struct {
	history   *HistoryService
	standings *StandingsService
	balance   *BalanceService
	store     ledger.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "rankings.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New() error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewLedgerRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
	return &fixture{
		history:   NewHistoryService(store, metrics.New(), zerolog.Nop()),
		standings: NewStandingsService(store, zerolog.Nop()),
		balance:   NewBalanceService(store, zerolog.Nop()),
		store:     store,
	}
}

func (f *fixture) addPlayers(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, n)
	for i := range ids {
		p, err := f.history.AddPlayer(context.Background(), fmt.Sprintf("p%d", i+1), 0)
		if err != nil {
			t.Fatalf("AddPlayer() error: %v", err)
		}
		ids[i] = p.ID
	}
	return ids
}

func (f *fixture) submit(t *testing.T, sub Submission) *Result {
	t.Helper()
	res, err := f.history.SubmitMatch(context.Background(), sub)
	if err != nil {
		t.Fatalf("SubmitMatch() error: %v", err)
	}
	return res
}

// dustTwo is one 24 round game: the first five ids win with 18 kills and 85
// damage each, the rest lose with 12 kills and 70 damage.
func dustTwo(ids []int64) Submission {
	sub := Submission{MapName: "Dust II", Rounds: 24}
	for i, id := range ids {
		p := domain.Participant{PlayerID: id, Kills: 12, Damage: 70}
		if i < constants.TeamSize {
			p = domain.Participant{PlayerID: id, Kills: 18, Damage: 85, Won: true}
		}
		sub.Participants = append(sub.Participants, p)
	}
	return sub
}

// varied builds the k-th game of a long series with changing winners,
// rounds and lines.
func varied(ids []int64, k int) Submission {
	sub := Submission{MapName: constants.MapPool[k%len(constants.MapPool)], Rounds: 20 + k%7}
	for i, id := range ids {
		won := i < constants.TeamSize
		if k%2 == 1 {
			won = !won
		}
		sub.Participants = append(sub.Participants, domain.Participant{
			PlayerID: id,
			Kills:    10 + (i+k)%9,
			Damage:   60 + (i*7+k*3)%50,
			Won:      won,
		})
	}
	return sub
}

func seasonRows(t *testing.T, f *fixture, seasonID int64) map[int64]domain.Aggregate {
	t.Helper()
	rows, err := f.store.ListSeasonPlayers(context.Background(), seasonID)
	if err != nil {
		t.Fatalf("ListSeasonPlayers() error: %v", err)
	}
	out := make(map[int64]domain.Aggregate, len(rows))
	for _, sp := range rows {
		out[sp.PlayerID] = sp.Aggregate
	}
	return out
}

func lifetimeRows(t *testing.T, f *fixture) map[int64]domain.Aggregate {
	t.Helper()
	players, err := f.store.ListPlayers(context.Background())
	if err != nil {
		t.Fatalf("ListPlayers() error: %v", err)
	}
	out := make(map[int64]domain.Aggregate, len(players))
	for _, p := range players {
		out[p.ID] = p.Aggregate
	}
	return out
}

func TestSubmitMatch_DustTwoScenario(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)

	res := f.submit(t, dustTwo(ids))

	if res.Season.GamesPlayed != 1 || res.Season.PlayerCount != 10 {
		t.Errorf("season = %+v, want 1 game and 10 players", res.Season)
	}
	if len(res.Stats) != constants.MatchSize {
		t.Fatalf("got %d stats, want %d", len(res.Stats), constants.MatchSize)
	}
	for _, stat := range res.Stats {
		wantKPR, wantRating := 0.5, 14.3
		if stat.Won {
			wantKPR, wantRating = 0.75, 16.4
		}
		if stat.KPR != wantKPR {
			t.Errorf("player %d KPR = %v, want %v", stat.PlayerID, stat.KPR, wantKPR)
		}
		if stat.MatchRating != wantRating {
			t.Errorf("player %d MatchRating = %v, want %v", stat.PlayerID, stat.MatchRating, wantRating)
		}
		if stat.Won != (stat.Momentum > 0) {
			t.Errorf("player %d momentum %v has the wrong sign", stat.PlayerID, stat.Momentum)
		}
	}

	for _, sp := range res.SeasonPlayers {
		want := domain.Aggregate{
			Played: 1, TotalKills: 12, TotalRounds: 24,
			AvgKills: 12, KPR: 0.5, AvgDamage: 70, Winrate: 0,
			TeamBalance: -24, CompositeRating: 16.28, BaselineRating: 14.8, AverageMatchRating: 14.3,
		}
		if sp.PlayerID <= ids[4] {
			want = domain.Aggregate{
				Played: 1, TotalWins: 1, TotalKills: 18, TotalRounds: 24,
				AvgKills: 18, KPR: 0.75, AvgDamage: 85, Winrate: 100,
				TeamBalance: 31, CompositeRating: 17.86, BaselineRating: 19.5, AverageMatchRating: 16.4,
			}
		}
		if diff := cmp.Diff(want, sp.Aggregate); diff != "" {
			t.Errorf("season row of player %d mismatch (-want +got):\n%s", sp.PlayerID, diff)
		}
	}

	for _, p := range res.Players {
		if p.Played != 0 || p.BaselineRating != constants.DefaultSeedRating {
			t.Errorf("lifetime row of %s changed before rollover: %+v", p.Name, p.Aggregate)
		}
	}
}

func TestSubmitMatch_Rejected(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)

	tests := []struct {
		name   string
		mutate func(s *Submission)
		want   error
	}{
		{"unknown map", func(s *Submission) { s.MapName = "de_nowhere" }, domain.ErrValidation},
		{"zero rounds", func(s *Submission) { s.Rounds = 0 }, domain.ErrValidation},
		{"nine players", func(s *Submission) { s.Participants = s.Participants[:9] }, domain.ErrValidation},
		{"duplicate player", func(s *Submission) { s.Participants[9].PlayerID = ids[0] }, domain.ErrValidation},
		{"six winners", func(s *Submission) { s.Participants[9].Won = true }, domain.ErrValidation},
		{"negative kills", func(s *Submission) { s.Participants[2].Kills = -1 }, domain.ErrValidation},
		{"unknown player", func(s *Submission) { s.Participants[9].PlayerID = 9999 }, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := dustTwo(ids)
			tt.mutate(&sub)
			if _, err := f.history.SubmitMatch(context.Background(), sub); !errors.Is(err, tt.want) {
				t.Fatalf("SubmitMatch() error = %v, want %v", err, tt.want)
			}
		})
	}

	games, err := f.store.ListAllGames(context.Background())
	if err != nil {
		t.Fatalf("ListAllGames() error: %v", err)
	}
	if len(games) != 0 {
		t.Errorf("rejected submissions left %d games behind", len(games))
	}
	if _, err := f.store.LatestSeason(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rejected submissions left a season behind: %v", err)
	}
}

func TestSubmitMatch_IncrementsPlayed(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 12)

	f.submit(t, dustTwo(ids[:10]))
	before := seasonRows(t, f, 1)

	res := f.submit(t, varied(ids[2:], 3))
	after := seasonRows(t, f, res.Season.ID)

	for _, id := range ids[2:] {
		if after[id].Played != before[id].Played+1 {
			t.Errorf("player %d played %d -> %d, want +1", id, before[id].Played, after[id].Played)
		}
	}
	for _, id := range ids[:2] {
		if after[id].Played != 1 {
			t.Errorf("sitting-out player %d played = %d, want 1", id, after[id].Played)
		}
	}
	if res.Season.PlayerCount != 12 {
		t.Errorf("PlayerCount = %d, want 12", res.Season.PlayerCount)
	}
}

func TestDeleteMatch_OnlyGameRemovesSeason(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()

	first := f.submit(t, dustTwo(ids))
	res, err := f.history.DeleteMatch(ctx, first.Game.ID)
	if err != nil {
		t.Fatalf("DeleteMatch() error: %v", err)
	}
	if !res.SeasonRemoved || res.Season != nil {
		t.Errorf("SeasonRemoved = %v, Season = %+v; want season removed", res.SeasonRemoved, res.Season)
	}
	if _, err := f.store.LatestSeason(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("LatestSeason() error = %v, want ErrNotFound", err)
	}

	again := f.submit(t, dustTwo(ids))
	if again.Game.ID <= first.Game.ID {
		t.Errorf("game id %d reused after delete of %d", again.Game.ID, first.Game.ID)
	}
	if got := seasonRows(t, f, again.Season.ID)[ids[0]].CompositeRating; got != 17.86 {
		t.Errorf("resubmitted scenario CompositeRating = %v, want 17.86", got)
	}
}

func TestDeleteMatch_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.history.DeleteMatch(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteMatch() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMatch_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()

	for k := 0; k < 3; k++ {
		f.submit(t, varied(ids, k))
	}
	before := seasonRows(t, f, 1)

	extra := f.submit(t, varied(ids, 7))
	if _, err := f.history.DeleteMatch(ctx, extra.Game.ID); err != nil {
		t.Fatalf("DeleteMatch() error: %v", err)
	}

	if diff := cmp.Diff(before, seasonRows(t, f, 1)); diff != "" {
		t.Errorf("delete did not undo submit (-before +after):\n%s", diff)
	}
	season, err := f.store.GetSeason(ctx, 1)
	if err != nil {
		t.Fatalf("GetSeason() error: %v", err)
	}
	if season.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", season.GamesPlayed)
	}
}

func TestSeasonRolloverAndReverse(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()

	for k := 0; k < constants.SeasonLength-1; k++ {
		res := f.submit(t, varied(ids, k))
		if res.RolledOver {
			t.Fatalf("rolled over after %d games", k+1)
		}
	}
	seasonBefore := seasonRows(t, f, 1)
	lifetimeBefore := lifetimeRows(t, f)

	last := f.submit(t, varied(ids, constants.SeasonLength-1))
	if !last.RolledOver || last.NextSeason == nil {
		t.Fatalf("30th game did not roll over: %+v", last)
	}
	if last.Season.State != domain.SeasonClosed || last.Season.GamesPlayed != constants.SeasonLength {
		t.Errorf("closed season = %+v", last.Season)
	}
	if last.NextSeason.State != domain.SeasonOpen || last.NextSeason.GamesPlayed != 0 {
		t.Errorf("next season = %+v", last.NextSeason)
	}

	// one closed season: lifetime equals the season's final rows
	closed := seasonRows(t, f, last.Season.ID)
	if diff := cmp.Diff(closed, lifetimeRows(t, f)); diff != "" {
		t.Errorf("lifetime rows differ from closed season (-season +lifetime):\n%s", diff)
	}

	carried, err := f.store.ListSeasonPlayers(ctx, last.NextSeason.ID)
	if err != nil {
		t.Fatalf("ListSeasonPlayers() error: %v", err)
	}
	if len(carried) != 10 {
		t.Fatalf("next season has %d rows, want 10", len(carried))
	}
	for _, sp := range carried {
		if sp.Played != 0 || sp.SeedRating != closed[sp.PlayerID].BaselineRating || sp.BaselineRating != sp.SeedRating {
			t.Errorf("carried row %d = seed %v baseline %v played %d", sp.PlayerID, sp.SeedRating, sp.BaselineRating, sp.Played)
		}
	}

	res, err := f.history.DeleteMatch(ctx, last.Game.ID)
	if err != nil {
		t.Fatalf("DeleteMatch() of closing game error: %v", err)
	}
	if res.Season.State != domain.SeasonOpen || res.Season.GamesPlayed != constants.SeasonLength-1 {
		t.Errorf("reopened season = %+v", res.Season)
	}
	if _, err := f.store.GetSeason(ctx, last.NextSeason.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("empty follower season still present: %v", err)
	}
	if diff := cmp.Diff(lifetimeBefore, lifetimeRows(t, f)); diff != "" {
		t.Errorf("reverse rollover did not restore lifetime rows (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(seasonBefore, seasonRows(t, f, 1)); diff != "" {
		t.Errorf("reverse rollover did not restore season rows (-before +after):\n%s", diff)
	}

	// close it again and build on the next season; the old one is sealed
	again := f.submit(t, varied(ids, constants.SeasonLength-1))
	if !again.RolledOver {
		t.Fatal("resubmitted 30th game did not roll over")
	}
	f.submit(t, dustTwo(ids))

	_, err = f.history.DeleteMatch(ctx, again.Game.ID)
	if !errors.Is(err, domain.ErrValidation) || !errors.Is(err, domain.ErrSeasonSealed) {
		t.Errorf("DeleteMatch() in sealed season error = %v, want ErrValidation and ErrSeasonSealed", err)
	}
}

func TestRebuildSeason_MatchesIncremental(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 12)
	ctx := context.Background()

	f.submit(t, dustTwo(ids[:10]))
	for k := 1; k < 5; k++ {
		f.submit(t, varied(ids[k%3:k%3+10], k))
	}

	rowsBefore := seasonRows(t, f, 1)
	statsBefore, err := f.store.ListSeasonStats(ctx, 1)
	if err != nil {
		t.Fatalf("ListSeasonStats() error: %v", err)
	}

	season, err := f.history.RebuildSeason(ctx)
	if err != nil {
		t.Fatalf("RebuildSeason() error: %v", err)
	}
	if season.GamesPlayed != 5 {
		t.Errorf("GamesPlayed = %d, want 5", season.GamesPlayed)
	}

	if diff := cmp.Diff(rowsBefore, seasonRows(t, f, 1)); diff != "" {
		t.Errorf("rebuild changed season rows (-incremental +rebuilt):\n%s", diff)
	}
	statsAfter, err := f.store.ListSeasonStats(ctx, 1)
	if err != nil {
		t.Fatalf("ListSeasonStats() error: %v", err)
	}
	for i := range statsBefore {
		a, b := statsBefore[i], statsAfter[i]
		if a.MatchRating != b.MatchRating || a.Momentum != b.Momentum {
			t.Errorf("stat %d changed: rating %v -> %v, momentum %v -> %v", a.ID, a.MatchRating, b.MatchRating, a.Momentum, b.Momentum)
		}
	}

	events, err := f.store.ListEvents(ctx, 1)
	if err != nil {
		t.Fatalf("ListEvents() error: %v", err)
	}
	if len(events) != 1 || events[0].Kind != domain.EventSeasonRebuilt {
		t.Errorf("latest event = %+v, want season_rebuilt", events)
	}
}

func TestRebuildSeason_NoSeason(t *testing.T) {
	f := newFixture(t)
	if _, err := f.history.RebuildSeason(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("RebuildSeason() error = %v, want ErrNotFound", err)
	}
}

func TestAddPlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.history.AddPlayer(ctx, "  ace  ", 0)
	if err != nil {
		t.Fatalf("AddPlayer() error: %v", err)
	}
	if p.Name != "ace" || p.SeedRating != constants.DefaultSeedRating || p.BaselineRating != constants.DefaultSeedRating {
		t.Errorf("AddPlayer() = %+v", p)
	}

	seeded, err := f.history.AddPlayer(ctx, "veteran", 17.5)
	if err != nil {
		t.Fatalf("AddPlayer() error: %v", err)
	}
	if seeded.BaselineRating != 17.5 {
		t.Errorf("BaselineRating = %v, want 17.5", seeded.BaselineRating)
	}

	for _, tc := range []struct {
		name string
		seed float64
	}{{"ace", 0}, {"", 0}, {"neg", -1}} {
		if _, err := f.history.AddPlayer(ctx, tc.name, tc.seed); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("AddPlayer(%q, %v) error = %v, want ErrValidation", tc.name, tc.seed, err)
		}
	}
}

func TestAddPlayer_JoinsOpenSeason(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()
	res := f.submit(t, dustTwo(ids))

	late, err := f.history.AddPlayer(ctx, "late", 12)
	if err != nil {
		t.Fatalf("AddPlayer() error: %v", err)
	}
	sp, err := f.store.GetSeasonPlayer(ctx, res.Season.ID, late.ID)
	if err != nil {
		t.Fatalf("GetSeasonPlayer() error: %v", err)
	}
	if sp.Played != 0 || sp.SeedRating != 12 || sp.BaselineRating != 12 {
		t.Errorf("season row = %+v", sp)
	}
}

// failingStore aborts any transaction that appends an event of kind.
type failingStore struct {
	ledger.Store
	kind domain.EventKind
}

func (s *failingStore) Atomically(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.Store.Atomically(ctx, func(tx ledger.Tx) error {
		return fn(&failingTx{Tx: tx, kind: s.kind})
	})
}

type failingTx struct {
	ledger.Tx
	kind domain.EventKind
}

func (tx *failingTx) AppendEvent(ctx context.Context, e *domain.LedgerEvent) error {
	if e.Kind == tx.kind {
		return errors.New("event log unavailable")
	}
	return tx.Tx.AppendEvent(ctx, e)
}

func transitions(t *testing.T, m *metrics.Metrics, direction string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "rankings_season_transitions_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "direction" && lp.GetValue() == direction {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestSeasonTransitions_CountedOnlyOnCommit(t *testing.T) {
	f := newFixture(t)
	ids := f.addPlayers(t, 10)
	ctx := context.Background()

	for k := 0; k < constants.SeasonLength-1; k++ {
		f.submit(t, varied(ids, k))
	}

	m := metrics.New()
	broken := NewHistoryService(&failingStore{Store: f.store, kind: domain.EventSeasonOpened}, m, zerolog.Nop())
	if _, err := broken.SubmitMatch(ctx, varied(ids, constants.SeasonLength-1)); err == nil {
		t.Fatal("SubmitMatch() succeeded with a failing event log")
	}
	if got := transitions(t, m, "forward"); got != 0 {
		t.Errorf("forward transitions after rolled back submit = %v, want 0", got)
	}
	season, err := f.store.LatestSeason(ctx)
	if err != nil {
		t.Fatalf("LatestSeason() error: %v", err)
	}
	if season.State != domain.SeasonOpen || season.GamesPlayed != constants.SeasonLength-1 {
		t.Errorf("season after rolled back submit = %+v", season)
	}

	working := NewHistoryService(f.store, m, zerolog.Nop())
	last, err := working.SubmitMatch(ctx, varied(ids, constants.SeasonLength-1))
	if err != nil {
		t.Fatalf("SubmitMatch() error: %v", err)
	}
	if got := transitions(t, m, "forward"); got != 1 {
		t.Errorf("forward transitions = %v, want 1", got)
	}

	broken = NewHistoryService(&failingStore{Store: f.store, kind: domain.EventSeasonReopened}, m, zerolog.Nop())
	if _, err := broken.DeleteMatch(ctx, last.Game.ID); err == nil {
		t.Fatal("DeleteMatch() succeeded with a failing event log")
	}
	if got := transitions(t, m, "reverse"); got != 0 {
		t.Errorf("reverse transitions after rolled back delete = %v, want 0", got)
	}

	res, err := working.DeleteMatch(ctx, last.Game.ID)
	if err != nil {
		t.Fatalf("DeleteMatch() error: %v", err)
	}
	if !res.SeasonReopened {
		t.Error("SeasonReopened not set")
	}
	if got := transitions(t, m, "reverse"); got != 1 {
		t.Errorf("reverse transitions = %v, want 1", got)
	}
}
