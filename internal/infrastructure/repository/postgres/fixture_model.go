package postgres

import (
	"time"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
)

const fixturesTable = "fixtures"

type fixtureTableModel struct {
	ID              int64     `db:"id" qb:"readonly"`
	PublicID        string    `db:"fixture_mid"`
	Season          int       `db:"season"`
	CompetitionName string    `db:"competition_name"`
	KickoffAt       time.Time `db:"kickoff_at"`
	Round           int       `db:"round"`
	HomeTeam        string    `db:"home_team"`
	AwayTeam        string    `db:"away_team"`
	CreatedAt       time.Time `db:"created_at" qb:"readonly"`
}

var fixtureSelectColumns = []string{
	"id",
	"fixture_mid",
	"season",
	"competition_name",
	"kickoff_at",
	"round",
	"home_team",
	"away_team",
	"created_at",
}

func fixtureToRow(item fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		PublicID:        item.ID,
		Season:          item.Season,
		CompetitionName: item.CompetitionName,
		KickoffAt:       item.KickoffAt.UTC(),
		Round:           item.Round,
		HomeTeam:        item.HomeTeam,
		AwayTeam:        item.AwayTeam,
	}
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:              row.PublicID,
		Season:          row.Season,
		CompetitionName: row.CompetitionName,
		KickoffAt:       row.KickoffAt.UTC(),
		Round:           row.Round,
		HomeTeam:        row.HomeTeam,
		AwayTeam:        row.AwayTeam,
	}
}
