// package service implements the services and their business logic that provide the main part of the program
package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/furesa/covid-19-tracker-eire/domain"
	"github.com/johannes-kuhfuss/services_utils/api_error"
)

type CsvService interface {
	Format(records []domain.CaseRecord) (string, api_error.ApiErr)
}

// The csv service turns case records into the row format the chart data upload expects
type DefaultCsvService struct {
}

// CsvHeader is the column header line the "ireland-counties-notadmin" basemap expects
const CsvHeader = "county,cases"

func NewCsvService() DefaultCsvService {
	return DefaultCsvService{}
}

// Format converts case records into LF-separated "county,cases" rows, one per
// record, in input order. County names are canonicalized against the basemap
// vocabulary; a name outside the vocabulary would silently drop off the map,
// so it is rejected here instead.
func (s DefaultCsvService) Format(records []domain.CaseRecord) (string, api_error.ApiErr) {
	rows := make([]string, 0, len(records))
	for _, record := range records {
		county, ok := domain.CanonicalCounty(record.County)
		if !ok {
			return "", api_error.NewBadRequestError(fmt.Sprintf("unknown county %q in case data", record.County))
		}
		if record.Cases < 0 {
			return "", api_error.NewBadRequestError(fmt.Sprintf("negative case count %v for county %v", record.Cases, county))
		}
		rows = append(rows, county+","+strconv.Itoa(record.Cases))
	}
	return strings.Join(rows, "\n"), nil
}
