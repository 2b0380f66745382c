package tables

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
)

var (
	demoFirstNames = []string{
		"Ada", "Alan", "Amara", "Bjorn", "Carmen", "Chidi", "Dmitri", "Elif",
		"Emre", "Fatima", "Grace", "Hana", "Ingrid", "Jonas", "Kenji", "Leila",
		"Lucia", "Mateo", "Nadia", "Oskar", "Priya", "Quentin", "Rosa", "Sven",
		"Tariq", "Ursula", "Viktor", "Wanda", "Yusuf", "Zeynep",
	}
	demoLastNames = []string{
		"Andersen", "Becker", "Castillo", "Dubois", "Eriksen", "Fischer",
		"Garcia", "Hansen", "Ito", "Jensen", "Kaya", "Larsen", "Moreau",
		"Nakamura", "Okafor", "Petrov", "Quinn", "Rossi", "Schmidt", "Torres",
		"Umar", "Vogel", "Weber", "Yilmaz", "Zimmermann",
	}
	demoJobs = []string{
		"Accountant", "Architect", "Carpenter", "Chemist", "Designer",
		"Engineer", "Librarian", "Nurse", "Pharmacist", "Pilot", "Teacher",
		"Translator", "Veterinarian", "Writer",
	}
	demoStreets = []string{
		"Maple Street", "Harbor Road", "Elm Avenue", "Station Lane",
		"Mill Road", "Park Avenue", "Church Street", "River Walk",
	}
	demoLocalities = []string{
		"Argentina", "Canada", "Denmark", "France", "Germany", "Japan",
		"Kenya", "Nigeria", "Norway", "Portugal", "Spain", "Turkey",
	}
)

// DemoPeople generates n rows for the people table. The same seed always
// yields the same rows, with lastUpdate counted back from now.
func DemoPeople(n int, seed uint64, now time.Time) []core.Record {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rows := make([]core.Record, n)
	for i := range rows {
		rows[i] = core.Record{
			"id":         fmt.Sprintf("p%04d", i+1),
			"firstName":  pick(r, demoFirstNames),
			"lastName":   pick(r, demoLastNames),
			"jobType":    pick(r, demoJobs),
			"gender":     pick(r, PeopleGenders),
			"address":    fmt.Sprintf("%d %s", 1+r.IntN(999), pick(r, demoStreets)),
			"locality":   pick(r, demoLocalities),
			"age":        float64(1 + r.IntN(99)),
			"visits":     float64(r.IntN(1001)),
			"status":     pick(r, PeopleStatuses),
			"lastUpdate": now.Add(-time.Duration(r.Int64N(int64(7 * 24 * time.Hour)))).Truncate(time.Second),
		}
	}
	return rows
}

func pick(r *rand.Rand, from []string) string {
	return from[r.IntN(len(from))]
}
