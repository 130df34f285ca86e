package models

import (
	reportmodels "algowatch/internal/report/models"
)

// Summary holds counts over shared reports. It never carries report text or
// identifiers.
type Summary struct {
	Tags         map[string]int `json:"tags"`
	CareSettings map[string]int `json:"care_settings"`
	Total        int            `json:"total"`
	Suppressed   bool           `json:"suppressed,omitempty"`
}

// Summarize counts each tag and care setting once per report.
func Summarize(facts []reportmodels.SharedFacts) Summary {
	s := Summary{
		Tags:         make(map[string]int),
		CareSettings: make(map[string]int),
		Total:        len(facts),
	}
	for _, f := range facts {
		for _, tag := range f.Tags {
			s.Tags[string(tag)]++
		}
		if f.CareSetting != "" {
			s.CareSettings[string(f.CareSetting)]++
		}
	}
	return s
}

// Suppress withholds small counts. With minSample <= 0 the summary is
// returned unchanged. When the total is below minSample both tables are
// emptied and Suppressed is set; otherwise individual counts below minSample
// are dropped.
func (s Summary) Suppress(minSample int) Summary {
	if minSample <= 0 {
		return s
	}
	if s.Total < minSample {
		return Summary{
			Tags:         map[string]int{},
			CareSettings: map[string]int{},
			Total:        s.Total,
			Suppressed:   true,
		}
	}
	return Summary{
		Tags:         withhold(s.Tags, minSample),
		CareSettings: withhold(s.CareSettings, minSample),
		Total:        s.Total,
	}
}

// Clone returns a deep copy.
func (s Summary) Clone() Summary {
	out := s
	out.Tags = make(map[string]int, len(s.Tags))
	for k, v := range s.Tags {
		out.Tags[k] = v
	}
	out.CareSettings = make(map[string]int, len(s.CareSettings))
	for k, v := range s.CareSettings {
		out.CareSettings[k] = v
	}
	return out
}

func withhold(counts map[string]int, minSample int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		if v >= minSample {
			out[k] = v
		}
	}
	return out
}
