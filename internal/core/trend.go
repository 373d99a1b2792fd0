package core

// WeeklyActivityPoint is one day of the trailing 7-day activity trend.
// Field names match the chart series labels.
type WeeklyActivityPoint struct {
	Date      string  `json:"date"` // short weekday label, e.g. "Mon"
	Leads     float64 `json:"Leads"`
	Emails    float64 `json:"Emails"`
	DMs       float64 `json:"DMs"`
	FollowUps float64 `json:"FollowUps"`
	Meetings  float64 `json:"Meetings"`
}

// PipelinePoint is one Monday-aligned week bucket of the trailing 4-week
// pipeline trend.
type PipelinePoint struct {
	Name  string  `json:"name"` // "Week 1" .. "Week 4", oldest first
	Value float64 `json:"Value"`
}

// ActivitySeries maps a daily category onto its activity trend series, or
// nil when the category does not chart.
func (p *WeeklyActivityPoint) ActivitySeries(cat Category) *float64 {
	switch cat {
	case NewLeadsProspected:
		return &p.Leads
	case EmailsSent:
		return &p.Emails
	case LinkedinConnections:
		return &p.DMs
	case ColdCallsMade:
		return &p.FollowUps
	case MeetingsBooked:
		return &p.Meetings
	default:
		return nil
	}
}
