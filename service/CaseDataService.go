package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/furesa/covid-19-tracker-eire/config"
	"github.com/furesa/covid-19-tracker-eire/domain"
	"github.com/go-resty/resty/v2"
	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/johannes-kuhfuss/services_utils/logger"
)

type CaseDataService interface {
	GetCases() ([]domain.CaseRecord, api_error.ApiErr)
}

// The case data service acquires the current per-county case counts, either
// by scraping the announcement page or from a prepared CSV file on disk
type DefaultCaseDataService struct {
	Cfg  *config.AppConfig
	http *resty.Client
}

// NewCaseDataService creates a new case data service and injects its dependencies
func NewCaseDataService(cfg *config.AppConfig) DefaultCaseDataService {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	return DefaultCaseDataService{
		Cfg:  cfg,
		http: client,
	}
}

// GetCases prefers the CSV file when one is configured, the announcement page otherwise
func (s DefaultCaseDataService) GetCases() ([]domain.CaseRecord, api_error.ApiErr) {
	if s.Cfg.DataSources.CsvFile != "" {
		return s.readCsvFile(s.Cfg.DataSources.CsvFile)
	}
	return s.scrapeCases(s.Cfg.DataSources.CasesUrl)
}

// scrapeCases pulls the county table off the announcement page.
// Rows whose first cell is not a county (headers, totals, footnotes) are skipped.
func (s DefaultCaseDataService) scrapeCases(pageUrl string) ([]domain.CaseRecord, api_error.ApiErr) {
	resp, reqErr := s.http.R().Get(pageUrl)
	if reqErr != nil {
		logger.Error("Cannot fetch case announcement page", reqErr)
		return nil, api_error.NewInternalServerError("could not fetch case announcement page", reqErr)
	}
	if !resp.IsSuccess() {
		return nil, api_error.NewInternalServerError("case announcement page returned an error", errors.New(resp.Status()))
	}
	doc, docErr := goquery.NewDocumentFromReader(bytes.NewBuffer(resp.Body()))
	if docErr != nil {
		logger.Error("Cannot parse case announcement page", docErr)
		return nil, api_error.NewInternalServerError("could not parse case announcement page", docErr)
	}
	asOf := time.Now()
	records := make([]domain.CaseRecord, 0, len(domain.Counties))
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		county, ok := domain.CanonicalCounty(cells.Eq(0).Text())
		if !ok {
			return
		}
		cases, convErr := parseCaseCount(cells.Eq(1).Text())
		if convErr != nil {
			logger.Warn(fmt.Sprintf("Skipping county %v, case count %q is not numeric", county, cells.Eq(1).Text()))
			return
		}
		records = append(records, domain.CaseRecord{County: county, Cases: cases, AsOf: asOf})
	})
	if len(records) == 0 {
		return nil, api_error.NewInternalServerError("no county case rows found on announcement page", nil)
	}
	logger.Infof("Scraped %v county case rows", len(records))
	return records, nil
}

// readCsvFile reads the per-county counts from a prepared CSV file
func (s DefaultCaseDataService) readCsvFile(file string) ([]domain.CaseRecord, api_error.ApiErr) {
	f, openErr := os.Open(file)
	if openErr != nil {
		logger.Error("Cannot open case data file", openErr)
		return nil, api_error.NewInternalServerError("could not open case data file", openErr)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, readErr := reader.ReadAll()
	if readErr != nil {
		logger.Error("Cannot read case data file", readErr)
		return nil, api_error.NewInternalServerError("could not read case data file", readErr)
	}
	asOf := time.Now()
	records := make([]domain.CaseRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "county") {
			continue
		}
		cases, convErr := parseCaseCount(row[1])
		if convErr != nil {
			return nil, api_error.NewBadRequestError(fmt.Sprintf("case count %q in row %v is not numeric", row[1], i+1))
		}
		records = append(records, domain.CaseRecord{County: strings.TrimSpace(row[0]), Cases: cases, AsOf: asOf})
	}
	return records, nil
}

// parseCaseCount handles thousands separators the announcements use ("1,234")
func parseCaseCount(raw string) (int, error) {
	n := strings.TrimSpace(raw)
	n = strings.ReplaceAll(n, ",", "")
	return strconv.Atoi(n)
}
