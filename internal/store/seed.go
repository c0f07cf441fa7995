package store

import (
	"strings"
	"time"

	"github.com/vonshlovens/fretlog/internal/model"
)

var seedMonths = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseMonthYear turns a tag like "Sept/25" into the first of that month
func parseMonthYear(tag string) time.Time {
	parts := strings.SplitN(tag, "/", 2)
	month := time.January
	year := 2000
	if len(parts) == 2 {
		if m, ok := seedMonths[strings.ToLower(strings.TrimSpace(parts[0]))]; ok {
			month = m
		}
		yy := strings.TrimSpace(parts[1])
		for _, c := range yy {
			if c < '0' || c > '9' {
				yy = ""
				break
			}
		}
		if yy != "" {
			n := 0
			for _, c := range yy {
				n = n*10 + int(c-'0')
			}
			year = 2000 + n
		}
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
}

func seedGuitar(id, maker, guitarModel, stringSpecs, lastTag string) model.Guitar {
	last := parseMonthYear(lastTag)
	return model.Guitar{
		ID:          id,
		Maker:       maker,
		Model:       guitarModel,
		StringSpecs: stringSpecs,
		CreatedAt:   last.AddDate(0, 0, -30),
		UpdatedAt:   last,
	}
}

func seedLog(id, guitarID, maintenanceTag, typeOfWork, notes string) model.MaintenanceLog {
	date := parseMonthYear(maintenanceTag)
	return model.MaintenanceLog{
		ID:              id,
		GuitarID:        guitarID,
		MaintenanceDate: date,
		TypeOfWork:      typeOfWork,
		Notes:           notes,
		CreatedAt:       date,
	}
}

// SeedState returns the built-in sample collection used when neither the
// mirror nor the local file has any data.
func SeedState() model.AppState {
	return model.AppState{
		Guitars: []model.Guitar{
			seedGuitar("1", "Fender", "Strat White", "009-046 Daddario (regular)", "Sept/25"),
			seedGuitar("2", "Epiphone", "Dave Grohl", "009-046 Daddario new (white pack)", "June/25"),
			seedGuitar("3", "Fender", "Strat Mike", "009-046 (Daddario)", "June/25"),
			seedGuitar("4", "Fender", "Telecaster", "009-046 (Daddario)", "Sept/25"),
			seedGuitar("5", "Fender", "Mustang", "009-046 String Joy (blue pack)", "Nov/25"),
			seedGuitar("6", "Gibson", "Les Paul Special", "009-046 String Joy (green pack)", "Sept/25"),
			seedGuitar("7", "Fender", "Jazzmaster", "009-046 Daddario new (white pack)", "May/25"),
			seedGuitar("8", "Yamaha", "Revstar", "009-046 (Daddario)", "June/25"),
			seedGuitar("9", "Fender", "Duo Sonic", "009-046 String Joy (blue pack)", "Sept/25"),
			seedGuitar("10", "Faith", "Neptune", "Acoustic (012s inferred)", "Dec/24"),
		},
		MaintenanceLogs: []model.MaintenanceLog{
			seedLog("1", "1", "Sept/25", "strings", "009-046 Daddario (regular)"),
			seedLog("2", "2", "June/25", "Set up - fretboard", "009-046 Daddario new (white pack)"),
			seedLog("3", "3", "June/25", "Set up - fretboard", "009-046 (Daddario)"),
			seedLog("4", "4", "Sept/25", "Set up - fretboard", "009-046 (Daddario)"),
			seedLog("5", "5", "Nov/25", "Set up / fretboard", "009-046 String Joy (blue pack)"),
			seedLog("6", "6", "Sept/25", "Set up - fretboard", "009-046 String Joy (green pack)"),
			seedLog("7", "7", "May/25", "Set up / fretboard", "009-046 Daddario new (white pack)"),
			seedLog("8", "8", "June/25", "Set up - fretboard", "009-046 (Daddario)"),
			seedLog("9", "9", "Sept/25", "Set up - fretboard", "009-046 String Joy (blue pack)"),
			seedLog("10", "10", "Dec/24", "strings", "Acoustic (012s inferred)"),
		},
	}
}
