package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/biobalance/admin/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

func TestOpenWithoutBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.MQConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := Open(context.Background(), config.MQConfig{Backend: "kafka"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestClientsValidateConfig(t *testing.T) {
	if _, err := NewRabbitMQClient(config.RabbitMQConfig{}); err == nil {
		t.Fatalf("expected error without rabbitmq url")
	}
	if _, err := NewPubSubClient(context.Background(), config.PubSubConfig{}); err == nil {
		t.Fatalf("expected error without pubsub project")
	}
}

func TestStringHeaders(t *testing.T) {
	if got := stringHeaders(nil); got != nil {
		t.Fatalf("expected nil attributes, got %v", got)
	}
	got := stringHeaders(amqp.Table{"kind": "login", "raw": []byte("x"), "n": int32(3)})
	if got["kind"] != "login" || got["raw"] != "x" || got["n"] != "3" {
		t.Fatalf("unexpected attributes %v", got)
	}
}
