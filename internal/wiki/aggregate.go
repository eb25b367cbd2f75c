package wiki

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// AttributeSide reports which side of row the team plays on, matching the
// team identifier as a case-insensitive substring of the side's name. Blue is
// checked first, so an identifier matching both names resolves to blue.
func AttributeSide(team string, row MatchRow) (Side, bool) {
	q := strings.ToLower(team)
	switch {
	case strings.Contains(strings.ToLower(row.Blue), q):
		return Blue, true
	case strings.Contains(strings.ToLower(row.Red), q):
		return Red, true
	default:
		return "", false
	}
}

// counter counts occurrences per champion and remembers first-seen order
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

type countEntry struct {
	name  string
	count int
}

// sorted returns entries by count descending; equal counts keep first-seen order
func (c *counter) sorted() []countEntry {
	entries := make([]countEntry, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, countEntry{name: name, count: c.counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	return entries
}

// Tally holds the raw pick and ban counts for one team
type Tally struct {
	Team        string
	Matches     int
	picks       map[Role]*counter
	bans        *counter
	bansAgainst *counter
}

func newTally(team string) *Tally {
	t := &Tally{
		Team:        team,
		picks:       make(map[Role]*counter, len(RoleOrder)),
		bans:        newCounter(),
		bansAgainst: newCounter(),
	}
	for _, role := range RoleOrder {
		t.picks[role] = newCounter()
	}
	return t
}

// PickCount returns how often champion was picked by the team in role
func (t *Tally) PickCount(role Role, champion string) int {
	c, ok := t.picks[role]
	if !ok {
		return 0
	}
	return c.counts[champion]
}

// BanCount returns how often the team banned champion
func (t *Tally) BanCount(champion string) int {
	return t.bans.counts[champion]
}

// BansAgainstCount returns how often opponents banned champion against the team
func (t *Tally) BansAgainstCount(champion string) int {
	return t.bansAgainst.counts[champion]
}

func (t *Tally) add(row MatchRow, side Side) {
	t.Matches++

	picks := row.Picks(side)
	switch {
	case len(picks) > len(RoleOrder):
		log.Warn().
			Str("team", t.Team).
			Str("date", row.Date).
			Int("picks", len(picks)).
			Msg("More picks than roles, extra picks ignored")
		picks = picks[:len(RoleOrder)]
	case len(picks) < len(RoleOrder):
		log.Warn().
			Str("team", t.Team).
			Str("date", row.Date).
			Int("picks", len(picks)).
			Msg("Incomplete draft, remaining roles not credited")
	}
	for i, champ := range picks {
		t.picks[RoleOrder[i]].inc(champ)
	}

	for _, champ := range row.Bans(side) {
		t.bans.inc(champ)
	}
	for _, champ := range row.Bans(side.Opposite()) {
		t.bansAgainst.inc(champ)
	}
}

// Aggregate counts picks per role, bans made, and bans suffered over every
// row involving team. It returns ErrNoMatches when no row involves team.
func Aggregate(rows []MatchRow, team string) (*Tally, error) {
	t := newTally(team)
	for _, row := range rows {
		side, ok := AttributeSide(team, row)
		if !ok {
			continue
		}
		t.add(row, side)
	}

	if t.Matches == 0 {
		return nil, fmt.Errorf("%w: %q in %d rows", ErrNoMatches, team, len(rows))
	}

	return t, nil
}

// IconResolver builds champion icon URLs
type IconResolver interface {
	IconURL(name string) string
}

// Process sorts the counts and attaches icons. Picks of all roles are
// flattened in role order and then ordered by pick count, stable on ties.
func (t *Tally) Process(icons IconResolver) TeamStats {
	stats := EmptyTeamStats()

	for _, role := range RoleOrder {
		for _, e := range t.picks[role].sorted() {
			stats.Picks = append(stats.Picks, ProcessedPick{
				Name:  e.name,
				Role:  role,
				Picks: e.count,
				Icon:  icons.IconURL(e.name),
			})
		}
	}
	sort.SliceStable(stats.Picks, func(i, j int) bool {
		return stats.Picks[i].Picks > stats.Picks[j].Picks
	})

	stats.Bans = processBans(t.bans, icons)
	stats.BansAgainst = processBans(t.bansAgainst, icons)

	return stats
}

func processBans(c *counter, icons IconResolver) []ProcessedBan {
	out := make([]ProcessedBan, 0, len(c.order))
	for _, e := range c.sorted() {
		out = append(out, ProcessedBan{
			Name:  e.name,
			Count: e.count,
			Icon:  icons.IconURL(e.name),
		})
	}
	return out
}
