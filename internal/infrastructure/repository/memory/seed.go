package memory

import (
	"time"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
)

const (
	CompetitionPremiership = "Gallagher Premiership"
	CompetitionURC         = "United Rugby Championship"
)

// SeedFixtures is demo data for the in-memory store.
func SeedFixtures() []fixture.Fixture {
	kickoff := func(month time.Month, day, hour, minute int) time.Time {
		return time.Date(2025, month, day, hour, minute, 0, 0, time.UTC)
	}

	return []fixture.Fixture{
		{ID: "prem-2025-r1-bat-bri", Season: 2025, CompetitionName: CompetitionPremiership, KickoffAt: kickoff(time.September, 26, 19, 45), Round: 1, HomeTeam: "Bath Rugby", AwayTeam: "Bristol Bears"},
		{ID: "prem-2025-r1-lei-nor", Season: 2025, CompetitionName: CompetitionPremiership, KickoffAt: kickoff(time.September, 27, 15, 0), Round: 1, HomeTeam: "Leicester Tigers", AwayTeam: "Northampton Saints"},
		{ID: "prem-2025-r1-sar-har", Season: 2025, CompetitionName: CompetitionPremiership, KickoffAt: kickoff(time.September, 27, 17, 30), Round: 1, HomeTeam: "Saracens", AwayTeam: "Harlequins"},
		{ID: "prem-2025-r2-glo-exe", Season: 2025, CompetitionName: CompetitionPremiership, KickoffAt: kickoff(time.October, 3, 19, 45), Round: 2, HomeTeam: "Gloucester Rugby", AwayTeam: "Exeter Chiefs"},
		{ID: "prem-2025-r2-nor-bat", Season: 2025, CompetitionName: CompetitionPremiership, KickoffAt: kickoff(time.October, 4, 15, 0), Round: 2, HomeTeam: "Northampton Saints", AwayTeam: "Bath Rugby"},
		{ID: "urc-2025-r1-lei-mun", Season: 2025, CompetitionName: CompetitionURC, KickoffAt: kickoff(time.September, 26, 19, 35), Round: 1, HomeTeam: "Leinster", AwayTeam: "Munster"},
		{ID: "urc-2025-r1-sto-bul", Season: 2025, CompetitionName: CompetitionURC, KickoffAt: kickoff(time.September, 27, 14, 0), Round: 1, HomeTeam: "DHL Stormers", AwayTeam: "Vodacom Bulls"},
		{ID: "urc-2025-r1-gla-edi", Season: 2025, CompetitionName: CompetitionURC, KickoffAt: kickoff(time.September, 27, 19, 35), Round: 1, HomeTeam: "Glasgow Warriors", AwayTeam: "Edinburgh Rugby"},
	}
}
