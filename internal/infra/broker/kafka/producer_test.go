package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSendsKeyPayloadAndHeaders(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "l-1" {
			return errors.New("unexpected key " + string(key))
		}
		if msg.Topic != "listing.events.v1" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		if len(msg.Headers) != 2 || string(msg.Headers[0].Key) != "content-type" {
			return errors.New("headers not sorted")
		}
		return nil
	})

	p := NewProducerFrom(mock)
	err := p.Publish(context.Background(), "listing.events.v1", "l-1", []byte(`{}`), map[string]string{
		"traceparent":  "00-abc-01",
		"content-type": "application/cloudevents+json",
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishPropagatesBrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerFrom(mock)
	err := p.Publish(context.Background(), "listing.events.v1", "l-1", []byte(`{}`), nil)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProducerFrom(mock)
	assert.ErrorIs(t, p.Publish(ctx, "t", "k", nil, nil), context.Canceled)
	require.NoError(t, p.Close())
}
