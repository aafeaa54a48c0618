package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("unexpected brokers: %v", cfg.Brokers)
	}
	if cfg.NotificationTopic != DefaultNotificationTopic {
		t.Errorf("unexpected topic: %s", cfg.NotificationTopic)
	}
}

func TestLoad_TrimsBrokerList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Brokers)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := &Config{
		Brokers:              []string{"kafka:9092", ""},
		NotificationTopic:    "clinic.notifications",
		DLQTopic:             "clinic.notifications",
		ProducerMaxAttempts:  0,
		ProducerBatchTimeout: 0,
		ProducerRequireAcks:  2,
		ProducerCompression:  "brotli",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"Broker 1", "DLQTopic", "ProducerMaxAttempts", "ProducerCompression", "ProducerRequireAcks"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %s", want, err.Error())
		}
	}
}
