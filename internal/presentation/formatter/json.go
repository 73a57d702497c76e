package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type segmentsDocument struct {
	Algorithm  string       `json:"algorithm"`
	TotalTime  float64      `json:"total_time"`
	MultiLevel bool         `json:"multi_level"`
	Segments   []SegmentRow `json:"segments"`
}

func (f *JSONFormatter) FormatSegments(w io.Writer, report Report) error {
	segments := report.Segments
	if segments == nil {
		segments = []SegmentRow{}
	}
	return f.write(w, segmentsDocument{
		Algorithm:  report.Algorithm,
		TotalTime:  report.TotalTime,
		MultiLevel: report.MultiLevel,
		Segments:   segments,
	})
}

type statsDocument struct {
	Algorithm string      `json:"algorithm"`
	Stats     interface{} `json:"process_stats"`
	Summary   Summary     `json:"summary"`
}

func (f *JSONFormatter) FormatStats(w io.Writer, report Report) error {
	doc := statsDocument{Algorithm: report.Algorithm, Stats: report.Stats, Summary: report.Summary}
	if report.Stats == nil {
		doc.Stats = []struct{}{}
	}
	return f.write(w, doc)
}

func (f *JSONFormatter) write(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
