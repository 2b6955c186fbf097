// Package insight derives lab-report summaries and charts from a health
// record's free-form metadata. It is the fallback used whenever the language
// model is unavailable, and the chart source when it is.
package insight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	ChartTitle = "Key Markers vs Normal Range"
	Disclaimer = "This is informational, consult a physician."

	SourceLLM  = "llm"
	SourceMock = "mock"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Marker struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	NormalRange Range   `json:"normal_range"`
	OutOfRange  bool    `json:"out_of_range"`
}

type Chart struct {
	Title  string   `json:"title"`
	Series []Marker `json:"series"`
}

type Report struct {
	Summary string `json:"summary_text"`
	Chart   Chart  `json:"chart_data"`
}

type markerDef struct {
	name   string
	keys   []string
	def    float64
	unit   string
	normal Range
}

var markers = []markerDef{
	{"Hemoglobin", []string{"hemoglobin"}, 11.2, "g/dL", Range{12, 16}},
	{"Creatinine", []string{"creatinine"}, 0.9, "mg/dL", Range{0.6, 1.2}},
	{"ALT", []string{"ALT", "alt"}, 58, "U/L", Range{7, 56}},
	{"LDL", []string{"LDL", "ldl"}, 168, "mg/dL", Range{0, 129}},
	{"HDL", []string{"HDL", "hdl"}, 41, "mg/dL", Range{40, 60}},
}

// TrendMarkers are the series tracked across a user's insights.
var TrendMarkers = []string{"LDL", "HDL", "ALT"}

// lookup returns the first present key. Keys are gjson paths, so the
// metadata keys must not contain path syntax.
func lookup(metadata []byte, keys ...string) (gjson.Result, bool) {
	if !gjson.ValidBytes(metadata) {
		return gjson.Result{}, false
	}
	for _, k := range keys {
		r := gjson.GetBytes(metadata, k)
		if r.Exists() && r.Type != gjson.Null {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func numberOr(metadata []byte, def float64, keys ...string) float64 {
	r, ok := lookup(metadata, keys...)
	if !ok {
		return def
	}
	if r.Type == gjson.Number {
		return r.Num
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64); err == nil {
		return v
	}
	return def
}

// Subject is the metadata test_name, else the record type.
func Subject(recordType string, metadata []byte) string {
	if r, ok := lookup(metadata, "test_name"); ok && r.String() != "" {
		return r.String()
	}
	return recordType
}

func Markers(metadata []byte) []Marker {
	out := make([]Marker, 0, len(markers))
	for _, m := range markers {
		v := numberOr(metadata, m.def, m.keys...)
		out = append(out, Marker{
			Name:        m.name,
			Value:       v,
			Unit:        m.unit,
			NormalRange: m.normal,
			OutOfRange:  v < m.normal.Min || v > m.normal.Max,
		})
	}
	return out
}

func BuildChart(metadata []byte) Chart {
	return Chart{Title: ChartTitle, Series: Markers(metadata)}
}

func BuildFallback(recordType string, metadata []byte) Report {
	chart := BuildChart(metadata)
	v := map[string]string{}
	for _, m := range chart.Series {
		v[m.Name] = formatNumber(m.Value)
	}

	summary := fmt.Sprintf(
		"Auto-generated summary for %s. Hemoglobin %s g/dL, Creatinine %s mg/dL, ALT %s U/L. LDL %s mg/dL and HDL %s mg/dL. %s",
		Subject(recordType, metadata), v["Hemoglobin"], v["Creatinine"], v["ALT"], v["LDL"], v["HDL"], Disclaimer,
	)
	return Report{Summary: summary, Chart: chart}
}

// MockChatReply answers a record question without a model. Only markers
// present in the metadata are mentioned.
func MockChatReply(recordType string, metadata []byte) string {
	name := Subject(recordType, metadata)
	if name == "" {
		name = "your report"
	}

	parts := []string{fmt.Sprintf("You're asking about %s.", name)}
	if r, ok := lookup(metadata, "LDL", "ldl"); ok {
		parts = append(parts, fmt.Sprintf("LDL is %s mg/dL; lower is generally better.", r.String()))
	}
	if r, ok := lookup(metadata, "HDL", "hdl"); ok {
		parts = append(parts, fmt.Sprintf("HDL is %s mg/dL; higher is protective.", r.String()))
	}
	if r, ok := lookup(metadata, "ALT", "alt"); ok {
		parts = append(parts, fmt.Sprintf("ALT is %s U/L; persistent elevation may warrant follow-up.", r.String()))
	}
	parts = append(parts, Disclaimer)
	return strings.Join(parts, " ")
}

// TrendValues pulls the trend markers out of stored chart JSON.
func TrendValues(chartData []byte) map[string]float64 {
	out := map[string]float64{}
	if !gjson.ValidBytes(chartData) {
		return out
	}
	gjson.GetBytes(chartData, "series").ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name").String()
		for _, want := range TrendMarkers {
			if name == want {
				out[name] = item.Get("value").Float()
			}
		}
		return true
	})
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
