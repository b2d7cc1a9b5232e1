// Package kafka forwards audit events to a Kafka topic keyed by identity.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "village/pkg/domain"
	audit "village/pkg/platform/audit"
)

const (
	HeaderCategory  = "category"
	HeaderRequestID = "request_id"
)

// Store implements audit.Store by producing one record per event.
type Store struct {
	client *kgo.Client
	topic  string
}

func New(client *kgo.Client, topic string) *Store {
	return &Store{client: client, topic: topic}
}

// NewClient builds a producer that waits for all in-sync replicas.
func NewClient(brokers []string, topic string, opts ...kgo.Opt) (*kgo.Client, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ClientID("village"),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

// payload is the JSON structure published to Kafka.
type payload struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Timestamp    string   `json:"timestamp"`
	IdentityID   string   `json:"identity_id,omitempty"`
	Action       string   `json:"action"`
	Intent       string   `json:"intent,omitempty"`
	VettingTypes []string `json:"vetting_types,omitempty"`
	Decision     string   `json:"decision,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	RequestID    string   `json:"request_id,omitempty"`
	ClientIP     string   `json:"client_ip,omitempty"`
	UserAgent    string   `json:"user_agent,omitempty"`
}

// Append produces the event synchronously.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	p := payload{
		ID:           event.ID.String(),
		Category:     string(event.Category),
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		Action:       event.Action,
		Intent:       event.Intent,
		VettingTypes: event.VettingTypes,
		Decision:     event.Decision,
		Reason:       event.Reason,
		RequestID:    event.RequestID,
		ClientIP:     event.ClientIP,
		UserAgent:    event.UserAgent,
	}
	key := p.ID
	if !event.IdentityID.IsNil() {
		p.IdentityID = event.IdentityID.String()
		key = p.IdentityID
	}

	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderCategory, Value: []byte(event.Category)},
			{Key: HeaderRequestID, Value: []byte(event.RequestID)},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to send audit event: %w", err)
	}
	return nil
}

// Decode parses a record value produced by Append.
func Decode(value []byte) (audit.Event, error) {
	var p payload
	if err := json.Unmarshal(value, &p); err != nil {
		return audit.Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	event := audit.Event{
		Category:     audit.EventCategory(p.Category),
		Action:       p.Action,
		Intent:       p.Intent,
		VettingTypes: p.VettingTypes,
		Decision:     p.Decision,
		Reason:       p.Reason,
		RequestID:    p.RequestID,
		ClientIP:     p.ClientIP,
		UserAgent:    p.UserAgent,
	}
	if parsed, err := uuid.Parse(p.ID); err == nil {
		event.ID = parsed
	}
	if ts, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
		event.Timestamp = ts
	}
	if p.IdentityID != "" {
		identityID, err := id.ParseIdentityID(p.IdentityID)
		if err != nil {
			return audit.Event{}, err
		}
		event.IdentityID = identityID
	}
	return event, nil
}
