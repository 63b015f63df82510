package rule

import "encoding/json"

// Extras is the typed view of a rule's opaque configuration blob.
type Extras struct {
	StrictTimes []string `json:"strict_times"`
	Meals       []string `json:"meals"`
	Relation    string   `json:"relation"`
	BedtimeTime string   `json:"bedtime_time"`
}

// ParseExtras decodes the raw extras JSON. Absent or malformed input yields
// the zero value: a corrupt blob degrades the rule to never-firing instead of
// failing the tick.
func ParseExtras(raw string) Extras {
	var e Extras
	if raw == "" {
		return e
	}
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Extras{}
	}
	return e
}
