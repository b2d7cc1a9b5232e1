//go:build integration

package legacy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"village/internal/onboarding/store/legacy"
	"village/pkg/platform/sentinel"
	"village/pkg/testutil/containers"
)

type MongoStoreSuite struct {
	suite.Suite
	col   *mongo.Collection
	store *legacy.MongoStore
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) SetupSuite() {
	mc := containers.GetManager().GetMongo(s.T())
	s.col = mc.Client.Database("village_test").Collection("waitlist")
	s.store = legacy.NewMongo(s.col)
	s.Require().NoError(s.store.EnsureIndexes(context.Background()))
}

func (s *MongoStoreSuite) SetupTest() {
	_, err := s.col.DeleteMany(context.Background(), bson.M{})
	s.Require().NoError(err)
}

func (s *MongoStoreSuite) TestFindByEmail() {
	ctx := context.Background()
	_, err := s.col.InsertMany(ctx, []any{
		bson.M{"email": "sam@example.com", "first_name": "Sam", "role": "parent"},
		bson.M{"email": "sam@example.com", "first_name": "Samantha", "zip_code": "94110", "role": "parent"},
	})
	s.Require().NoError(err)

	rec, err := s.store.FindByEmail(ctx, " SAM@example.com")
	s.Require().NoError(err)
	s.Equal("Samantha", rec.FirstName, "latest entry wins")
	s.Equal("94110", rec.ZipCode)
	s.Equal("parent", rec.Role)
}

func (s *MongoStoreSuite) TestMissing() {
	_, err := s.store.FindByEmail(context.Background(), "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
