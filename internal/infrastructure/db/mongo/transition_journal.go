package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const transitionsCollection = "project_transitions"

// TransitionJournal implements ports.TransitionJournal using MongoDB.
type TransitionJournal struct {
	coll *mongo.Collection
}

// NewTransitionJournal creates a new TransitionJournal.
func NewTransitionJournal(db *mongo.Database) ports.TransitionJournal {
	return &TransitionJournal{coll: db.Collection(transitionsCollection)}
}

// EnsureIndexes creates the index used to list a project's history.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(transitionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("project_id_at"),
	})
	if err != nil {
		return fmt.Errorf("ensure transition indexes: %w", err)
	}
	return nil
}

// Insert persists a journal entry. An ID is assigned when missing.
func (j *TransitionJournal) Insert(ctx context.Context, rec *domain.TransitionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	if _, err := j.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// ListByProject returns the newest entries for a project first.
func (j *TransitionJournal) ListByProject(ctx context.Context, projectID string, limit int64) ([]domain.TransitionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := j.coll.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find transitions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.TransitionRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode transitions: %w", err)
	}
	return out, nil
}
