package service

import (
	"github.com/furesa/covid-19-tracker-eire/domain"
	"github.com/furesa/covid-19-tracker-eire/store"
	"github.com/johannes-kuhfuss/services_utils/api_error"
)

type PublisherService interface {
	GetCurrentMap() (*domain.PublishResult, api_error.ApiErr)
	GetCurrentMapURL() (string, api_error.ApiErr)
}

// The publisher service hands the current public map link to the web side
type DefaultPublisherService struct {
	Store  store.ChartStore
	Charts ChartService
}

// NewPublisherService creates a new publisher service and injects its dependencies
func NewPublisherService(chartStore store.ChartStore, charts ChartService) DefaultPublisherService {
	return DefaultPublisherService{
		Store:  chartStore,
		Charts: charts,
	}
}

// GetCurrentMap publishes the stored map and returns link and embed code.
// When no map has been created yet this fails before any network call.
func (s DefaultPublisherService) GetCurrentMap() (*domain.PublishResult, api_error.ApiErr) {
	chartId, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	return s.Charts.Publish(chartId)
}

// GetCurrentMapURL returns just the shareable link
func (s DefaultPublisherService) GetCurrentMapURL() (string, api_error.ApiErr) {
	result, err := s.GetCurrentMap()
	if err != nil {
		return "", err
	}
	return result.PublicUrl, nil
}
