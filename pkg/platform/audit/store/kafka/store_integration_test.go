//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "village/pkg/domain"
	audit "village/pkg/platform/audit"
	"village/pkg/testutil/containers"
)

type KafkaStoreSuite struct {
	suite.Suite
	brokers []string
	topic   string
	client  *kgo.Client
	store   *Store
}

func TestKafkaStoreSuite(t *testing.T) {
	suite.Run(t, new(KafkaStoreSuite))
}

func (s *KafkaStoreSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaStoreSuite) SetupTest() {
	s.topic = "audit-" + uuid.NewString()
	client, err := NewClient(s.brokers, s.topic)
	s.Require().NoError(err)
	s.client = client
	s.store = New(client, s.topic)
	s.Require().NoError(EnsureTopic(context.Background(), client, s.topic, 1, 1))
}

func (s *KafkaStoreSuite) TearDownTest() {
	s.client.Close()
}

func (s *KafkaStoreSuite) TestEnsureTopicIsIdempotent() {
	s.NoError(EnsureTopic(context.Background(), s.client, s.topic, 1, 1))
}

func (s *KafkaStoreSuite) TestAppendProducesKeyedRecord() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	identityID := id.IdentityID(uuid.New())
	event := audit.Event{
		ID:           uuid.New(),
		Category:     audit.CategoryCompliance,
		Timestamp:    time.Now().UTC().Truncate(time.Millisecond),
		IdentityID:   identityID,
		Action:       string(audit.EventOnboardingCompleted),
		Intent:       "providing",
		VettingTypes: []string{"provider"},
		RequestID:    "req-42",
	}
	s.Require().NoError(s.store.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			records = append(records, r)
		})
	}

	s.Require().Len(records, 1)
	s.Equal(identityID.String(), string(records[0].Key))

	got, err := Decode(records[0].Value)
	s.Require().NoError(err)
	s.Equal(event.ID, got.ID)
	s.Equal(event.IdentityID, got.IdentityID)
	s.True(event.Timestamp.Equal(got.Timestamp))
	s.Equal([]string{"provider"}, got.VettingTypes)
	s.Equal("req-42", got.RequestID)
}
