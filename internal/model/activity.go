package model

import (
	"strings"
	"time"
)

// Activity is a single timestamped organizational event. Participants are
// referenced by person ID; the participant list is treated as immutable once
// an analysis run starts.
type Activity struct {
	ID             string       `json:"id"`
	Type           ActivityType `json:"type"`
	Timestamp      time.Time    `json:"timestamp"`
	Content        string       `json:"content"`
	Tags           []string     `json:"tags,omitempty"`
	ParticipantIDs []string     `json:"participant_ids"`
}

func (a *Activity) AddParticipant(personID string) {
	for _, id := range a.ParticipantIDs {
		if id == personID {
			return
		}
	}
	a.ParticipantIDs = append(a.ParticipantIDs, personID)
}

// AddTag stores the tag lower-cased with set semantics.
func (a *Activity) AddTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	for _, t := range a.Tags {
		if t == tag {
			return
		}
	}
	a.Tags = append(a.Tags, tag)
}
