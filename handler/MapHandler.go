// package handler exposes the published map to the web front end
package handler

import (
	"fmt"
	"net/http"

	"github.com/furesa/covid-19-tracker-eire/service"
	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	Publisher service.PublisherService
}

func NewMapHandler(publisher service.PublisherService) MapHandler {
	return MapHandler{
		Publisher: publisher,
	}
}

const mapPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Irish Covid19 Cases</title>
</head>
<body>
%v
</body>
</html>`

// GetMapUrl returns the current public map link as JSON
func (h MapHandler) GetMapUrl(c *gin.Context) {
	result, err := h.Publisher.GetCurrentMap()
	if err != nil {
		c.JSON(err.StatusCode(), gin.H{"error": err.Message()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":  result.ChartId,
		"url": result.PublicUrl,
	})
}

// GetMapPage renders a minimal page embedding the published map.
// When no embed code is available the page links to the public url instead.
func (h MapHandler) GetMapPage(c *gin.Context) {
	result, err := h.Publisher.GetCurrentMap()
	if err != nil {
		c.JSON(err.StatusCode(), gin.H{"error": err.Message()})
		return
	}
	embed := result.EmbedCode
	if embed == "" {
		embed = fmt.Sprintf("<a href=%q>Irish Covid19 Cases</a>", result.PublicUrl)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(mapPage, embed)))
}
