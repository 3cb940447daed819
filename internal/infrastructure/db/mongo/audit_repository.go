package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

const loginEventsCollection = "login_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertLoginEvent appends to the login_events collection.
func (r *AuditRepository) InsertLoginEvent(ctx context.Context, event *domain.LoginEvent) error {
	doc := bson.M{
		"email":        event.Email,
		"outcome":      string(event.Outcome),
		"remote_ip":    event.RemoteIP,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}

	_, err := r.db.Collection(loginEventsCollection).InsertOne(ctx, doc)
	return err
}

// TouchLastLogin sets last_login_at on the user, never moving it backwards.
func (r *AuditRepository) TouchLastLogin(ctx context.Context, userID string, event *domain.LoginEvent) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	filter := bson.M{"_id": oid}
	update := bson.M{"$max": bson.M{"last_login_at": event.Timestamp.UTC()}}

	_, err = r.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	return err
}

// EnsureIndexes indexes login events by email and time.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(loginEventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}

var _ ports.AuditRepository = (*AuditRepository)(nil)
