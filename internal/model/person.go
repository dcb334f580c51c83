package model

// Person is a participant in activities. Relations to activities and
// collaborators are held as IDs and resolved through a Registry, so records
// stay acyclic and can live in flat storage.
type Person struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Department      string   `json:"department"`
	Role            string   `json:"role,omitempty"`
	Email           string   `json:"email"`
	Skills          []string `json:"skills,omitempty"`
	ActivityIDs     []string `json:"activity_ids,omitempty"`
	CollaboratorIDs []string `json:"collaborator_ids,omitempty"`
}

func (p *Person) AddActivity(activityID string) {
	p.ActivityIDs = append(p.ActivityIDs, activityID)
}

// AddCollaborator records a symmetric working relationship. Duplicates and
// self-references are ignored.
func (p *Person) AddCollaborator(personID string) {
	if personID == p.ID {
		return
	}
	for _, id := range p.CollaboratorIDs {
		if id == personID {
			return
		}
	}
	p.CollaboratorIDs = append(p.CollaboratorIDs, personID)
}
