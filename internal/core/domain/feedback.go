package domain

import "time"

// Feedback is an executor's bid on a customer's post. Accepting it creates a
// project on the backend.
type Feedback struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	PostName       string    `json:"postName,omitempty"`
	PostPrice      float64   `json:"postPrice,omitempty"`
	ExecutorID     string    `json:"executorId,omitempty"`
	ExecutorName   string    `json:"executorName,omitempty"`
	ExecutorRating float64   `json:"executorRating,omitempty"`
	SuggestedPrice float64   `json:"suggestedPrice"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}
