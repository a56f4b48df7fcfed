// package config defines the program's configuration including the defaults
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configuration with subsections
type AppConfig struct {
	DataWrapper struct {
		Host     string `envconfig:"DATAWRAPPER_HOST" default:"https://api.datawrapper.de"`
		ApiToken string `envconfig:"DATAWRAPPER_API_TOKEN"`
		Title    string `envconfig:"MAP_TITLE" default:"Irish Covid19 Cases"`
		Basemap  string `envconfig:"MAP_BASEMAP" default:"ireland-counties-notadmin"`
	}
	DataSources struct {
		CasesUrl string `envconfig:"CASES_URL" default:"https://www.gov.ie/en/campaigns/c36c85-covid-19-coronavirus/"`
		CsvFile  string `envconfig:"CASES_CSV_FILE"`
	}
	Store struct {
		ChartFile string `envconfig:"CHART_STATE_FILE" default:"chart.yaml"`
	}
	Server struct {
		Host string `envconfig:"SERVER_HOST"`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	RunTime struct {
		RunMode string
	}
}

var (
	EnvFile = ".env"
)

// InitConfig initializes the configuration and sets the defaults
func InitConfig(file string, config *AppConfig) error {
	if err := loadConfig(file); err != nil {
		return fmt.Errorf("could not load configuration from file: %v", err.Error())
	}
	if err := envconfig.Process("", config); err != nil {
		return fmt.Errorf("could not initialize configuration: %v", err.Error())
	}
	setDefaults(config)
	return nil
}

// checkFilePath does sanity-checking on file paths
func checkFilePath(filePath *string) {
	if *filePath != "" {
		*filePath = filepath.Clean(*filePath)
		_, err := os.Stat(*filePath)
		if err == nil {
			*filePath, err = filepath.EvalSymlinks(*filePath)
			if err != nil {
				log.Printf("error checking file %v", *filePath)
			}
		}
	}
}

// setDefaults sets defaults for some configurations items
func setDefaults(config *AppConfig) {
	checkFilePath(&config.Store.ChartFile)
	checkFilePath(&config.DataSources.CsvFile)
}

// loadConfig loads the configuration from file. Returns an error if loading fails
func loadConfig(file string) error {
	if err := godotenv.Load(file); err != nil {
		return err
	}
	return nil
}
