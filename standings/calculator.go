package standings

import (
	"sort"

	"github.com/interclass/tournament-system/models"
)

// Points awarded per result in the group stage.
const (
	pointsWin  = 3
	pointsDraw = 1
)

// Calculate builds the ranking table for one group from its finished
// group-stage games. Games that are not finished or not group-stage are
// ignored, as are games between teams outside the provided set.
//
// Ties on points are broken by a head-to-head mini-table over exactly
// the tied teams (points, goal difference, goals-for, all restricted to
// games among them), then overall goal difference, overall goals-for,
// and overall goals-against. Evaluating head-to-head over the whole tied
// subset instead of pairwise keeps the order deterministic when three or
// more teams beat each other in a cycle. Team ID is the final stable key.
func Calculate(teams []models.Team, games []models.Game) []models.StandingRow {
	byTeam := make(map[int]*models.StandingRow, len(teams))
	order := make([]int, 0, len(teams))
	for _, t := range teams {
		byTeam[t.ID] = &models.StandingRow{TeamID: t.ID, TeamName: t.Name}
		order = append(order, t.ID)
	}

	relevant := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Status != models.StatusFinished || g.Stage != models.StageGroup {
			continue
		}
		if byTeam[g.Team1ID] == nil || byTeam[g.Team2ID] == nil {
			continue
		}
		relevant = append(relevant, g)
		accumulate(byTeam[g.Team1ID], g.ScoreTeam1, g.ScoreTeam2)
		accumulate(byTeam[g.Team2ID], g.ScoreTeam2, g.ScoreTeam1)
	}

	rows := make([]models.StandingRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byTeam[id])
	}
	sortRows(rows, relevant)
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Qualified returns the top n rows of an already-ranked table.
func Qualified(rows []models.StandingRow, n int) []models.StandingRow {
	if n > len(rows) {
		n = len(rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.StandingRow, n)
	copy(out, rows[:n])
	return out
}

func accumulate(row *models.StandingRow, scored, conceded int) {
	row.GamesPlayed++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	switch {
	case scored > conceded:
		row.Wins++
		row.Points += pointsWin
	case scored == conceded:
		row.Draws++
		row.Points += pointsDraw
	default:
		row.Losses++
	}
}

// miniRow is a team's record restricted to games among a tied subset.
type miniRow struct {
	points   int
	goalDiff int
	goalsFor int
}

// miniTable folds the games played among exactly the given teams.
func miniTable(teamIDs map[int]bool, games []models.Game) map[int]*miniRow {
	table := make(map[int]*miniRow, len(teamIDs))
	for id := range teamIDs {
		table[id] = &miniRow{}
	}
	for _, g := range games {
		if !teamIDs[g.Team1ID] || !teamIDs[g.Team2ID] {
			continue
		}
		applyMini(table[g.Team1ID], g.ScoreTeam1, g.ScoreTeam2)
		applyMini(table[g.Team2ID], g.ScoreTeam2, g.ScoreTeam1)
	}
	return table
}

func applyMini(row *miniRow, scored, conceded int) {
	row.goalsFor += scored
	row.goalDiff += scored - conceded
	switch {
	case scored > conceded:
		row.points += pointsWin
	case scored == conceded:
		row.points += pointsDraw
	}
}

func sortRows(rows []models.StandingRow, games []models.Game) {
	// Points first, so tied clusters are contiguous.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Points > rows[j].Points })

	// Resolve each cluster of equal points with its head-to-head
	// mini-table, then the overall criteria.
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) && rows[end].Points == rows[start].Points {
			end++
		}
		if end-start > 1 {
			tied := rows[start:end]
			ids := make(map[int]bool, len(tied))
			for _, r := range tied {
				ids[r.TeamID] = true
			}
			mini := miniTable(ids, games)
			sort.SliceStable(tied, func(i, j int) bool {
				return lessTied(tied[i], tied[j], mini)
			})
		}
		start = end
	}
}

func lessTied(a, b models.StandingRow, mini map[int]*miniRow) bool {
	ma, mb := mini[a.TeamID], mini[b.TeamID]
	if ma.points != mb.points {
		return ma.points > mb.points
	}
	if ma.goalDiff != mb.goalDiff {
		return ma.goalDiff > mb.goalDiff
	}
	if ma.goalsFor != mb.goalsFor {
		return ma.goalsFor > mb.goalsFor
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	if a.GoalsAgainst != b.GoalsAgainst {
		return a.GoalsAgainst < b.GoalsAgainst
	}
	return a.TeamID < b.TeamID
}
