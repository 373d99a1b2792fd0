package core

// Catalog returns a fresh copy of the static goal catalog: every metric
// with its default target range and a zero current value. Callers own the
// returned value and may mutate it freely.
func Catalog() KpiData {
	return KpiData{
		Daily: DailyGoals{
			EmailsSent:          catalogGoal(Daily, EmailsSent, "Emails Sent", 50, 100, ""),
			ColdCallsMade:       catalogGoal(Daily, ColdCallsMade, "Cold Calls Made", 30, 60, ""),
			LinkedinConnections: catalogGoal(Daily, LinkedinConnections, "LinkedIn Connections", 10, 20, ""),
			NewLeadsProspected:  catalogGoal(Daily, NewLeadsProspected, "New Leads Prospected", 15, 30, ""),
			MeetingsBooked:      catalogGoal(Daily, MeetingsBooked, "Meetings Booked", 1, 2, ""),
		},
		Weekly: WeeklyGoals{
			MeetingsBooked:         catalogGoal(Weekly, MeetingsBooked, "Meetings Booked", 5, 10, ""),
			PipelineGenerated:      catalogGoal(Weekly, PipelineGenerated, "Pipeline Generated", 25000, 100000, "$"),
			NewAccountsTouched:     catalogGoal(Weekly, NewAccountsTouched, "New Accounts Touched", 30, 60, ""),
			PersonalizedLoomVideos: catalogGoal(Weekly, PersonalizedLoomVideos, "Personalized Loom Videos", 5, 10, ""),
		},
		Monthly: MonthlyGoals{
			SqlsCreated:          catalogGoal(Monthly, SqlsCreated, "SQLs Created", 20, 40, ""),
			OpportunitiesCreated: catalogGoal(Monthly, OpportunitiesCreated, "Opportunities Created", 10, 20, ""),
			PipelineValueCreated: catalogGoal(Monthly, PipelineValueCreated, "Pipeline Value Created", 100000, 500000, "$"),
			ClosedDeals:          catalogGoal(Monthly, ClosedDeals, "Closed Deals", 2, 5, ""),
		},
		History: []HistoryEntry{},
	}
}

// catalogGoal builds one catalog slot. IDs are deterministic
// "timeFrame.category" strings; the slot identity is the (time frame,
// category) pair, so random IDs would only complicate round trips.
func catalogGoal(tf TimeFrame, cat Category, name string, min, max float64, unit string) KpiGoal {
	return KpiGoal{
		ID:     string(tf) + "." + string(cat),
		Name:   name,
		Target: Target{Min: min, Max: max},
		Unit:   unit,
	}
}
