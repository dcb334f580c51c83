package model

// ActivityType is the finite set of activity kinds the analyzers know about.
type ActivityType string

const (
	ActivityEmail    ActivityType = "email"
	ActivityMeeting  ActivityType = "meeting"
	ActivityDocument ActivityType = "document"
	ActivityChat     ActivityType = "chat"
	ActivityTask     ActivityType = "task"
	ActivityOther    ActivityType = "other"
)

// ParseActivityType maps a raw string onto the known set, defaulting to
// ActivityOther for anything it does not recognize.
func ParseActivityType(s string) ActivityType {
	switch ActivityType(s) {
	case ActivityEmail, ActivityMeeting, ActivityDocument, ActivityChat, ActivityTask:
		return ActivityType(s)
	default:
		return ActivityOther
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyIrregular Frequency = "irregular"
)
