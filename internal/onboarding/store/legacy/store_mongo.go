// Package legacy reads pre-registration (waitlist) records collected before
// accounts existed. This service never writes them.
package legacy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"village/internal/onboarding/models"
	"village/pkg/platform/sentinel"
)

type waitlistEntry struct {
	Email     string `bson:"email"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	Phone     string `bson:"phone"`
	ZipCode   string `bson:"zip_code"`
	Role      string `bson:"role"`
}

// MongoStore looks waitlist entries up by email.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// EnsureIndexes creates the email lookup index. Startup logs a failure and
// carries on; lookups still work without it.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_lookup"),
	})
	return err
}

// FindByEmail returns the most recent entry for the email. Emails are
// compared lower-cased.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.LegacyRecord, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, sentinel.ErrNotFound
	}
	var entry waitlistEntry
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	err := s.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find waitlist entry: %w", err)
	}
	return &models.LegacyRecord{
		Email:     entry.Email,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
		Phone:     entry.Phone,
		ZipCode:   entry.ZipCode,
		Role:      entry.Role,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
