package main

import (
	"github.com/furesa/covid-19-tracker-eire/app"
)

func main() {
	app.RunApp()
}
