package domain

import "time"

// TransitionRecord is a journal entry for a lifecycle action the backend
// accepted (or rejected).
type TransitionRecord struct {
	ID        string        `json:"id" bson:"_id"`
	ProjectID string        `json:"project_id" bson:"project_id"`
	ActorID   string        `json:"actor_id" bson:"actor_id"`
	Action    ProjectAction `json:"action" bson:"action"`
	From      ProjectStatus `json:"from" bson:"from"`
	To        ProjectStatus `json:"to" bson:"to"`
	Deadline  string        `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Rating    int           `json:"rating,omitempty" bson:"rating,omitempty"`
	Error     string        `json:"error,omitempty" bson:"error,omitempty"`
	At        time.Time     `json:"at" bson:"at"`
}

// Succeeded reports whether the backend accepted the transition.
func (r TransitionRecord) Succeeded() bool {
	return r.Error == ""
}
