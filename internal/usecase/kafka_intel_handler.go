package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"AgriPulse/internal/domain/models"
	domrepo "AgriPulse/internal/domain/repository"
	pkgkafka "AgriPulse/pkg/kafka"
)

// KafkaIntelHandler consumes sentiment, weather and policy messages from
// the intel topic and writes them to the warehouse. Messages carry a
// `kind` discriminator and a kind-specific payload.
type KafkaIntelHandler struct {
	topic   string
	store   domrepo.IntelStore
	metrics domrepo.Metrics
}

func NewKafkaIntelHandler(topic string, store domrepo.IntelStore, metrics domrepo.Metrics) *KafkaIntelHandler {
	return &KafkaIntelHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaIntelHandler) Topic() string { return h.topic }

func (h *KafkaIntelHandler) Handle(ctx context.Context, b []byte) error {
	var env struct {
		Kind    string          `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		h.metrics.RecordError("intel_unmarshal")
		return err
	}

	var err error
	switch env.Kind {
	case "sentiment":
		var r models.SentimentRecord
		if err = json.Unmarshal(env.Payload, &r); err == nil {
			err = h.store.StoreSentiment(ctx, &r)
		}
	case "weather":
		var o models.WeatherObservation
		if err = json.Unmarshal(env.Payload, &o); err == nil {
			err = h.store.StoreWeather(ctx, &o)
		}
	case "policy":
		var e models.PolicyEvent
		if err = json.Unmarshal(env.Payload, &e); err == nil {
			err = h.store.StorePolicy(ctx, &e)
		}
	default:
		h.metrics.RecordError("intel_unknown_kind")
		return fmt.Errorf("unknown intel kind: %q", env.Kind)
	}

	if err != nil {
		h.metrics.RecordError("intel_store")
		return fmt.Errorf("intel %s: %w", env.Kind, err)
	}
	h.metrics.RecordMessageSent("clickhouse", env.Kind)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaIntelHandler)(nil)
