// package app ties together all bits and pieces to start the program
package app

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/furesa/covid-19-tracker-eire/config"
	"github.com/furesa/covid-19-tracker-eire/handler"
	"github.com/furesa/covid-19-tracker-eire/service"
	"github.com/furesa/covid-19-tracker-eire/store"
	"github.com/gin-gonic/gin"
	"github.com/johannes-kuhfuss/services_utils/api_error"
	"github.com/johannes-kuhfuss/services_utils/logger"
)

var (
	cfg              config.AppConfig
	chartStore       store.FileChartStore
	chartService     service.DefaultChartService
	caseDataService  service.DefaultCaseDataService
	csvService       service.DefaultCsvService
	mapWorkerService service.DefaultMapWorkerService
	publisherService service.DefaultPublisherService
	mapHandler       handler.MapHandler
)

// RunApp orchestrates the startup of the application
func RunApp() {
	getCmdLine()
	err := config.InitConfig(config.EnvFile, &cfg)
	if err != nil {
		panic(err)
	}
	wireApp()
	var runErr api_error.ApiErr
	switch cfg.RunTime.RunMode {
	case "create":
		logger.Info("Initiating map creation process")
		runErr = mapWorkerService.Create()
	case "update":
		logger.Info("Initiating map data update process")
		runErr = mapWorkerService.Update()
	case "serve":
		startServer()
	default:
		fmt.Fprintf(os.Stderr, "usage: %v [-config.file <file>] create|update|serve\r\n", os.Args[0])
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error(fmt.Sprintf("%v run failed: %v", cfg.RunTime.RunMode, runErr.Message()), runErr)
		os.Exit(1)
	}
}

// getCmdLine checks the command line arguments
func getCmdLine() {
	flag.StringVar(&config.EnvFile, "config.file", ".env", "Specify location of config file. Default is .env")
	flag.Parse()
	cfg.RunTime.RunMode = flag.Arg(0)
}

// wireApp initializes the services in the right order and injects the dependencies
func wireApp() {
	chartStore = store.NewChartStore(cfg.Store.ChartFile)
	chartService = service.NewChartService(&cfg)
	caseDataService = service.NewCaseDataService(&cfg)
	csvService = service.NewCsvService()
	mapWorkerService = service.NewMapWorkerService(&cfg, chartStore, chartService, caseDataService, csvService)
	publisherService = service.NewPublisherService(chartStore, chartService)
	mapHandler = handler.NewMapHandler(publisherService)
}

// startServer hosts the map page for the web front end
func startServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.GET("/map", mapHandler.GetMapPage)
	router.GET("/api/v1/map", mapHandler.GetMapUrl)
	listenAddr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Serving map page on %v", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		logger.Error("Could not start server", err)
		os.Exit(1)
	}
}
