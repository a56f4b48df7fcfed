package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/furesa/covid-19-tracker-eire/config"
	"github.com/furesa/covid-19-tracker-eire/domain"
	"github.com/go-resty/resty/v2"
	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/johannes-kuhfuss/services_utils/logger"
)

type ChartService interface {
	Create(title string) (string, api_error.ApiErr)
	Configure(chartId string) api_error.ApiErr
	AddTooltip(chartId string) api_error.ApiErr
	UpdateData(chartId string, rows string) api_error.ApiErr
	SetLastUpdated(chartId string, updatedAt time.Time) api_error.ApiErr
	Publish(chartId string) (*domain.PublishResult, api_error.ApiErr)
}

// The chart service handles all the communication with the datawrapper API
// API doc: https://developer.datawrapper.de/docs
type DefaultChartService struct {
	Cfg  *config.AppConfig
	http *resty.Client
}

const (
	chartType       = "d3-maps-choropleth"
	basemapKeyAttr  = "FIRST_CO_E"
	sourceName      = "Irish Department of Health"
	sourceUrl       = "https://www.gov.ie/en/campaigns/c36c85-covid-19-coronavirus/"
	lastUpdateStamp = "01/02/2006, 15:04:05 PM"
)

// NewChartService creates a new chart service and injects its dependencies
func NewChartService(cfg *config.AppConfig) DefaultChartService {
	client := resty.New()
	client.SetBaseURL(cfg.DataWrapper.Host)
	client.SetTimeout(10 * time.Second)
	return DefaultChartService{
		Cfg:  cfg,
		http: client,
	}
}

type createChartResponse struct {
	Id string `json:"id"`
}

type publishChartResponse struct {
	Data struct {
		PublicUrl string `json:"publicUrl"`
		Metadata  struct {
			Publish struct {
				EmbedCodes map[string]string `json:"embed-codes"`
			} `json:"publish"`
		} `json:"metadata"`
	} `json:"data"`
}

// checkToken guards every call so a missing token never hits the network
func (s DefaultChartService) checkToken() api_error.ApiErr {
	if s.Cfg.DataWrapper.ApiToken == "" {
		return api_error.NewUnauthenticatedError("no datawrapper API token configured")
	}
	return nil
}

// respError maps a non-2xx datawrapper response onto the error taxonomy
func respError(resp *resty.Response, action string) api_error.ApiErr {
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return api_error.NewUnauthenticatedError(fmt.Sprintf("datawrapper rejected the API token while trying to %v", action))
	case http.StatusNotFound:
		return api_error.NewNotFoundError(fmt.Sprintf("datawrapper does not know this map (%v)", action))
	default:
		return api_error.NewInternalServerError(fmt.Sprintf("datawrapper request failed (%v)", action), errors.New(resp.Status()))
	}
}

// Create allocates a new choropleth chart and returns its identifier
func (s DefaultChartService) Create(title string) (string, api_error.ApiErr) {
	if err := s.checkToken(); err != nil {
		return "", err
	}
	resp, reqErr := s.http.R().
		SetHeader("content-type", "application/json").
		SetAuthToken(s.Cfg.DataWrapper.ApiToken).
		SetBody(map[string]string{
			"title": title,
			"type":  chartType,
		}).
		Post("/v3/charts")
	if reqErr != nil {
		logger.Error("Cannot execute chart create request", reqErr)
		return "", api_error.NewInternalServerError("could not reach datawrapper", reqErr)
	}
	if !resp.IsSuccess() {
		return "", respError(resp, "create map")
	}
	var created createChartResponse
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		logger.Error("Cannot parse chart create response", err)
		return "", api_error.NewInternalServerError("could not parse datawrapper create response", err)
	}
	if created.Id == "" {
		return "", api_error.NewInternalServerError("datawrapper create response carried no chart id", nil)
	}
	logger.Infof("Created new choropleth with map id %v", created.Id)
	return created.Id, nil
}

// patchMetadata sends one metadata PATCH for the given chart
func (s DefaultChartService) patchMetadata(chartId string, payload domain.ChartPayload, action string) api_error.ApiErr {
	if err := s.checkToken(); err != nil {
		return err
	}
	resp, reqErr := s.http.R().
		SetHeader("content-type", "application/json").
		SetAuthToken(s.Cfg.DataWrapper.ApiToken).
		SetBody(payload).
		Patch("/v3/charts/" + chartId)
	if reqErr != nil {
		logger.Error("Cannot execute chart metadata request", reqErr)
		return api_error.NewInternalServerError("could not reach datawrapper", reqErr)
	}
	if !resp.IsSuccess() {
		return respError(resp, action)
	}
	return nil
}

// Configure applies the Ireland basemap settings, axes, tooltip and source attribution
func (s DefaultChartService) Configure(chartId string) api_error.ApiErr {
	tooltip := &domain.ChartTooltip{
		Body:  "{{ cases }} cases.",
		Title: "{{ county }}",
		Fields: map[string]string{
			"cases":  "cases",
			"county": "county",
		},
	}
	payload := domain.ChartPayload{
		Metadata: domain.ChartMetadata{
			Axes: &domain.ChartAxes{
				Keys:   "county",
				Labels: "county",
				Values: "cases",
			},
			Tooltip: tooltip,
			Visualize: &domain.ChartVisualize{
				Basemap:        s.Cfg.DataWrapper.Basemap,
				MapKeyAttr:     basemapKeyAttr,
				MapKeyFormat:   "0",
				MapKeyPosition: "br",
				Zoomable:       true,
				MapLabelLabel:  "county",
				MapLabelZoom:   "1",
				MinLabelZoom:   "1",
			},
			Describe: &domain.ChartDescribe{
				SourceName:   sourceName,
				SourceUrl:    sourceUrl,
				NumberFormat: "-",
			},
			Publish: &domain.ChartPublish{
				EmbedWidth:  600,
				EmbedHeight: 600,
			},
		},
	}
	if err := s.patchMetadata(chartId, payload, "configure map"); err != nil {
		return err
	}
	logger.Infof("Updated map settings for map id %v", chartId)
	return nil
}

// AddTooltip sets the mouseover message shown when hovering over a county
func (s DefaultChartService) AddTooltip(chartId string) api_error.ApiErr {
	payload := domain.ChartPayload{
		Metadata: domain.ChartMetadata{
			Visualize: &domain.ChartVisualize{
				Tooltip: &domain.ChartTooltip{
					Body:  "{{ cases }} cases.",
					Title: "{{ county }}",
					Fields: map[string]string{
						"cases":  "cases",
						"county": "county",
					},
				},
			},
		},
	}
	if err := s.patchMetadata(chartId, payload, "add tooltip"); err != nil {
		return err
	}
	logger.Infof("Added tooltip hover settings for map id %v", chartId)
	return nil
}

// UpdateData pushes the formatted case rows into the chart.
// The API works best with CSV, the header line names the basemap columns.
func (s DefaultChartService) UpdateData(chartId string, rows string) api_error.ApiErr {
	if err := s.checkToken(); err != nil {
		return err
	}
	resp, reqErr := s.http.R().
		SetHeader("accept", "*/*").
		SetHeader("content-type", "text/csv").
		SetAuthToken(s.Cfg.DataWrapper.ApiToken).
		SetBody(CsvHeader + "\n" + rows).
		Put("/v3/charts/" + chartId + "/data")
	if reqErr != nil {
		logger.Error("Cannot execute chart data request", reqErr)
		return api_error.NewInternalServerError("could not reach datawrapper", reqErr)
	}
	if !resp.IsSuccess() {
		return respError(resp, "update map data")
	}
	logger.Infof("Map data updated for map id %v", chartId)
	return nil
}

// SetLastUpdated puts a "Last update" note under the map
func (s DefaultChartService) SetLastUpdated(chartId string, updatedAt time.Time) api_error.ApiErr {
	payload := domain.ChartPayload{
		Metadata: domain.ChartMetadata{
			Annotate: &domain.ChartAnnotate{
				Notes: "Last update:" + updatedAt.Format(lastUpdateStamp),
			},
		},
	}
	return s.patchMetadata(chartId, payload, "set last update note")
}

// Publish makes the chart's current state publicly visible and returns the share link and embed code
func (s DefaultChartService) Publish(chartId string) (*domain.PublishResult, api_error.ApiErr) {
	if err := s.checkToken(); err != nil {
		return nil, err
	}
	resp, reqErr := s.http.R().
		SetHeader("content-type", "application/json").
		SetAuthToken(s.Cfg.DataWrapper.ApiToken).
		Post("/v3/charts/" + chartId + "/publish")
	if reqErr != nil {
		logger.Error("Cannot execute chart publish request", reqErr)
		return nil, api_error.NewInternalServerError("could not reach datawrapper", reqErr)
	}
	if !resp.IsSuccess() {
		return nil, respError(resp, "publish map")
	}
	var published publishChartResponse
	if err := json.Unmarshal(resp.Body(), &published); err != nil {
		logger.Error("Cannot parse chart publish response", err)
		return nil, api_error.NewInternalServerError("could not parse datawrapper publish response", err)
	}
	result := domain.PublishResult{
		ChartId:   chartId,
		PublicUrl: published.Data.PublicUrl,
		EmbedCode: published.Data.Metadata.Publish.EmbedCodes["embed-method-responsive"],
	}
	if result.PublicUrl == "" {
		result.PublicUrl = fmt.Sprintf("https://datawrapper.dwcdn.net/%v/", chartId)
	}
	logger.Infof("Map published for map id %v", chartId)
	return &result, nil
}
