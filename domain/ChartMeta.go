package domain

// ChartPayload is the body shape of the Datawrapper v3 chart PATCH calls.
// Only the metadata sections actually set are serialized.
type ChartPayload struct {
	Metadata ChartMetadata `json:"metadata"`
}

type ChartMetadata struct {
	Axes      *ChartAxes      `json:"axes,omitempty"`
	Tooltip   *ChartTooltip   `json:"tooltip,omitempty"`
	Visualize *ChartVisualize `json:"visualize,omitempty"`
	Describe  *ChartDescribe  `json:"describe,omitempty"`
	Publish   *ChartPublish   `json:"publish,omitempty"`
	Annotate  *ChartAnnotate  `json:"annotate,omitempty"`
}

type ChartAxes struct {
	Keys   string `json:"keys"`
	Labels string `json:"labels"`
	Values string `json:"values"`
}

type ChartTooltip struct {
	Body   string            `json:"body"`
	Title  string            `json:"title"`
	Fields map[string]string `json:"fields"`
}

type ChartVisualize struct {
	Basemap        string        `json:"basemap,omitempty"`
	MapKeyAttr     string        `json:"map-key-attr,omitempty"`
	MapKeyFormat   string        `json:"map-key-format,omitempty"`
	MapKeyPosition string        `json:"map-key-position,omitempty"`
	Zoomable       bool          `json:"zoomable,omitempty"`
	MapLabelLabel  string        `json:"map-label-label,omitempty"`
	MapLabelZoom   string        `json:"map-label-zoom,omitempty"`
	MinLabelZoom   string        `json:"min-label-zoom,omitempty"`
	Tooltip        *ChartTooltip `json:"tooltip,omitempty"`
}

type ChartDescribe struct {
	SourceName   string `json:"source-name"`
	SourceUrl    string `json:"source-url"`
	NumberFormat string `json:"number-format"`
}

type ChartPublish struct {
	EmbedWidth  int `json:"embed-width"`
	EmbedHeight int `json:"embed-height"`
}

type ChartAnnotate struct {
	Notes string `json:"notes"`
}

// PublishResult carries what the web side needs from a publish call
type PublishResult struct {
	ChartId   string
	PublicUrl string
	EmbedCode string
}
