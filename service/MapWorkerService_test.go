package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/furesa/covid-19-tracker-eire/config"
	"github.com/furesa/covid-19-tracker-eire/domain"
	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/stretchr/testify/assert"
)

// in-memory stand-ins for the store and the remote service

type fakeChartStore struct {
	chartId string
	saved   []string
	loadErr api_error.ApiErr
	saveErr api_error.ApiErr
}

func (f *fakeChartStore) Load() (string, api_error.ApiErr) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	if f.chartId == "" {
		return "", api_error.NewNotFoundError("no map configured yet, run create first")
	}
	return f.chartId, nil
}

func (f *fakeChartStore) Save(chartId string) api_error.ApiErr {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.chartId = chartId
	f.saved = append(f.saved, chartId)
	return nil
}

type fakeChartClient struct {
	createdId    string
	createErr    api_error.ApiErr
	updateErr    api_error.ApiErr
	publishErr   api_error.ApiErr
	createCalls  int
	updateCalls  int
	publishCalls int
	gotChartId   string
	gotRows      string
}

func (f *fakeChartClient) Create(title string) (string, api_error.ApiErr) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createdId, nil
}

func (f *fakeChartClient) Configure(chartId string) api_error.ApiErr {
	return nil
}

func (f *fakeChartClient) AddTooltip(chartId string) api_error.ApiErr {
	return nil
}

func (f *fakeChartClient) UpdateData(chartId string, rows string) api_error.ApiErr {
	f.updateCalls++
	f.gotChartId = chartId
	f.gotRows = rows
	return f.updateErr
}

func (f *fakeChartClient) SetLastUpdated(chartId string, updatedAt time.Time) api_error.ApiErr {
	return nil
}

func (f *fakeChartClient) Publish(chartId string) (*domain.PublishResult, api_error.ApiErr) {
	f.publishCalls++
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &domain.PublishResult{
		ChartId:   chartId,
		PublicUrl: "https://datawrapper.dwcdn.net/" + chartId + "/",
	}, nil
}

type fakeCaseData struct {
	records []domain.CaseRecord
	err     api_error.ApiErr
}

func (f *fakeCaseData) GetCases() ([]domain.CaseRecord, api_error.ApiErr) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestWorker(chartStore *fakeChartStore, charts *fakeChartClient, cases *fakeCaseData) DefaultMapWorkerService {
	cfg := config.AppConfig{}
	cfg.DataWrapper.Title = "Irish Covid19 Cases"
	return NewMapWorkerService(&cfg, chartStore, charts, cases, NewCsvService())
}

func twoCountyRecords() []domain.CaseRecord {
	return []domain.CaseRecord{
		{County: "Dublin", Cases: 120},
		{County: "Cork", Cases: 45},
	}
}

func TestCreateStoresReturnedIdAndPushesData(t *testing.T) {
	chartStore := &fakeChartStore{}
	charts := &fakeChartClient{createdId: "abc123"}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Create()

	assert.Nil(t, err)
	assert.EqualValues(t, []string{"abc123"}, chartStore.saved)
	assert.EqualValues(t, "abc123", charts.gotChartId)
	assert.EqualValues(t, "Dublin,120\nCork,45", charts.gotRows)
	assert.EqualValues(t, 1, charts.publishCalls)
}

func TestCreateWithExistingMapIsRejected(t *testing.T) {
	chartStore := &fakeChartStore{chartId: "abc123"}
	charts := &fakeChartClient{createdId: "xyz789"}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Create()

	assert.NotNil(t, err)
	assert.EqualValues(t, http.StatusBadRequest, err.StatusCode())
	assert.Contains(t, err.Message(), "abc123")
	assert.EqualValues(t, 0, charts.createCalls)
	assert.Empty(t, chartStore.saved)
}

func TestCreateFailureDoesNotWriteStore(t *testing.T) {
	chartStore := &fakeChartStore{}
	charts := &fakeChartClient{createErr: api_error.NewInternalServerError("datawrapper request failed", nil)}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Create()

	assert.NotNil(t, err)
	assert.Empty(t, chartStore.saved)
}

func TestUpdateWithoutPriorCreateFailsWithoutNetworkCall(t *testing.T) {
	chartStore := &fakeChartStore{}
	charts := &fakeChartClient{}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Update()

	assert.NotNil(t, err)
	assert.EqualValues(t, http.StatusNotFound, err.StatusCode())
	assert.EqualValues(t, 0, charts.updateCalls)
	assert.EqualValues(t, 0, charts.publishCalls)
}

func TestUpdatePushesFormattedRowsAgainstStoredId(t *testing.T) {
	chartStore := &fakeChartStore{chartId: "abc123"}
	charts := &fakeChartClient{}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Update()

	assert.Nil(t, err)
	assert.EqualValues(t, "abc123", charts.gotChartId)
	assert.EqualValues(t, "Dublin,120\nCork,45", charts.gotRows)
	assert.EqualValues(t, 1, charts.publishCalls)
}

func TestUpdateUnknownCountyAbortsBeforeUpload(t *testing.T) {
	chartStore := &fakeChartStore{chartId: "abc123"}
	charts := &fakeChartClient{}
	cases := &fakeCaseData{records: []domain.CaseRecord{{County: "Atlantis", Cases: 7}}}
	worker := newTestWorker(chartStore, charts, cases)

	err := worker.Update()

	assert.NotNil(t, err)
	assert.EqualValues(t, http.StatusBadRequest, err.StatusCode())
	assert.EqualValues(t, 0, charts.updateCalls)
}

func TestUpdateStaleIdPropagatesNotFound(t *testing.T) {
	chartStore := &fakeChartStore{chartId: "gone"}
	charts := &fakeChartClient{updateErr: api_error.NewNotFoundError("datawrapper does not know this map")}
	worker := newTestWorker(chartStore, charts, &fakeCaseData{records: twoCountyRecords()})

	err := worker.Update()

	assert.NotNil(t, err)
	assert.EqualValues(t, http.StatusNotFound, err.StatusCode())
	assert.EqualValues(t, 0, charts.publishCalls)
}
