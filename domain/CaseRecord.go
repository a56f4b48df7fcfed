// package domain defines the core data structures
package domain

import (
	"strings"
	"time"
)

// CaseRecord holds one county's confirmed case count as of a given date
type CaseRecord struct {
	County string
	Cases  int
	AsOf   time.Time
}

// Counties lists the 26 counties the "ireland-counties-notadmin" basemap knows about.
// Rows with any other region name cannot be drawn and must be rejected before upload.
var Counties = []string{
	"Carlow",
	"Cavan",
	"Clare",
	"Cork",
	"Donegal",
	"Dublin",
	"Galway",
	"Kerry",
	"Kildare",
	"Kilkenny",
	"Laois",
	"Leitrim",
	"Limerick",
	"Longford",
	"Louth",
	"Mayo",
	"Meath",
	"Monaghan",
	"Offaly",
	"Roscommon",
	"Sligo",
	"Tipperary",
	"Waterford",
	"Westmeath",
	"Wexford",
	"Wicklow",
}

var countyIndex = buildCountyIndex()

func buildCountyIndex() map[string]string {
	idx := make(map[string]string, len(Counties))
	for _, c := range Counties {
		idx[strings.ToLower(c)] = c
	}
	return idx
}

// CanonicalCounty maps a scraped region name onto the basemap's county vocabulary.
// Matching ignores case, surrounding whitespace and a leading "Co." prefix.
func CanonicalCounty(name string) (county string, ok bool) {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(n, "Co.")
	n = strings.TrimPrefix(n, "Co ")
	n = strings.TrimSpace(n)
	county, ok = countyIndex[strings.ToLower(n)]
	return
}
