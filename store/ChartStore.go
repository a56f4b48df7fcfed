// package store persists the chart identifier between runs
package store

import (
	"os"
	"time"

	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/spf13/viper"
)

type ChartStore interface {
	Load() (string, api_error.ApiErr)
	Save(chartId string) api_error.ApiErr
}

// FileChartStore keeps the identifier of the one tracked map in a small
// YAML state file, read at the start of every run and rewritten after a
// successful create. Single operator, sequential runs, no locking.
type FileChartStore struct {
	file string
}

func NewChartStore(file string) FileChartStore {
	return FileChartStore{
		file: file,
	}
}

// Load reads the chart identifier from the state file.
// Returns a not-found error when the file or the identifier does not exist yet
func (s FileChartStore) Load() (string, api_error.ApiErr) {
	v := viper.New()
	v.SetConfigFile(s.file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return "", api_error.NewNotFoundError("no map configured yet, run create first")
		}
		return "", api_error.NewInternalServerError("could not read chart state file", err)
	}
	chartId := v.GetString("chart.id")
	if chartId == "" {
		return "", api_error.NewNotFoundError("no map configured yet, run create first")
	}
	return chartId, nil
}

// Save writes the chart identifier to the state file
func (s FileChartStore) Save(chartId string) api_error.ApiErr {
	v := viper.New()
	v.SetConfigFile(s.file)
	v.SetConfigType("yaml")
	v.Set("chart.id", chartId)
	v.Set("chart.updated", time.Now().Format(time.RFC3339))
	if err := v.WriteConfigAs(s.file); err != nil {
		return api_error.NewInternalServerError("could not write chart state file", err)
	}
	return nil
}
