package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/furesa/covid-19-tracker-eire/config"
	"github.com/furesa/covid-19-tracker-eire/store"
	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/johannes-kuhfuss/services_utils/logger"
)

type MapWorkerService interface {
	Create() api_error.ApiErr
	Update() api_error.ApiErr
}

// The map worker service orchestrates a full create or update run against datawrapper
type DefaultMapWorkerService struct {
	Cfg    *config.AppConfig
	Store  store.ChartStore
	Charts ChartService
	Cases  CaseDataService
	Csv    CsvService
}

// NewMapWorkerService creates a new map worker service and injects its dependencies
func NewMapWorkerService(cfg *config.AppConfig, chartStore store.ChartStore, charts ChartService, cases CaseDataService, csv CsvService) DefaultMapWorkerService {
	return DefaultMapWorkerService{
		Cfg:    cfg,
		Store:  chartStore,
		Charts: charts,
		Cases:  cases,
		Csv:    csv,
	}
}

// Create allocates a new map, stores its identifier, configures it and pushes the first data.
// A map that already exists is not silently replaced, the state file is the explicit override.
func (s DefaultMapWorkerService) Create() api_error.ApiErr {
	if existingId, loadErr := s.Store.Load(); loadErr == nil {
		return api_error.NewBadRequestError(fmt.Sprintf("map %v already exists, run update instead or remove the state file", existingId))
	} else if loadErr.StatusCode() != http.StatusNotFound {
		return loadErr
	}
	chartId, err := s.Charts.Create(s.Cfg.DataWrapper.Title)
	if err != nil {
		return err
	}
	// store the id right after the confirmed create so a later failure
	// in this run does not orphan the chart
	if err := s.Store.Save(chartId); err != nil {
		return err
	}
	if err := s.Charts.Configure(chartId); err != nil {
		return err
	}
	if err := s.Charts.AddTooltip(chartId); err != nil {
		return err
	}
	if err := s.pushData(chartId); err != nil {
		return err
	}
	return s.publish(chartId)
}

// Update pushes the current case data into the existing map
func (s DefaultMapWorkerService) Update() api_error.ApiErr {
	chartId, err := s.Store.Load()
	if err != nil {
		return err
	}
	if err := s.pushData(chartId); err != nil {
		return err
	}
	return s.publish(chartId)
}

func (s DefaultMapWorkerService) pushData(chartId string) api_error.ApiErr {
	records, err := s.Cases.GetCases()
	if err != nil {
		return err
	}
	rows, err := s.Csv.Format(records)
	if err != nil {
		return err
	}
	return s.Charts.UpdateData(chartId, rows)
}

func (s DefaultMapWorkerService) publish(chartId string) api_error.ApiErr {
	if err := s.Charts.SetLastUpdated(chartId, time.Now()); err != nil {
		return err
	}
	result, err := s.Charts.Publish(chartId)
	if err != nil {
		return err
	}
	logger.Infof("Map %v is live at %v", chartId, result.PublicUrl)
	return nil
}
