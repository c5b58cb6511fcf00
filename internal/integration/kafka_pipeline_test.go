//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/nasr-etl/internal/adapter/kafka"
	"github.com/couchcryptid/nasr-etl/internal/config"
	"github.com/couchcryptid/nasr-etl/internal/distribution"
	"github.com/couchcryptid/nasr-etl/internal/observability"
	"github.com/couchcryptid/nasr-etl/internal/pipeline"
)

const (
	testSinkTopic    = "test-nasr-records"
	distributionPath = "../pipeline/testdata/nasr"
)

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Event struct {
		ID         string         `json:"id"`
		Family     string         `json:"family"`
		RecordType string         `json:"record_type"`
		Line       int            `json:"line"`
		Fields     map[string]any `json:"fields"`
	}
	Key     string
	Headers map[string]string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("nasr-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	}))
}

// readSink reads a single message from the sink consumer and deserializes it.
func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	var sm sinkMessage
	sm.Key = string(msg.Key)
	sm.Headers = make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		sm.Headers[h.Key] = string(h.Value)
	}
	require.NoError(t, json.Unmarshal(msg.Value, &sm.Event), "unmarshal sink message")
	return sm
}

// TestPipelineEndToEnd decodes the sample distribution and publishes every
// row through a real Kafka broker.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSinkTopic:     testSinkTopic,
		BatchSize:          50,
		BatchFlushInterval: 100 * time.Millisecond,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(distribution.NewDirectory(distributionPath), writer, discardLogger(),
		observability.NewMetricsForTesting(), pipeline.Options{
			BatchSize:     cfg.BatchSize,
			MaxLineErrors: -1,
			Concurrency:   2,
		})
	require.NoError(t, p.Run(ctx))
	require.NoError(t, p.CheckReadiness(ctx))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	const wantRows = 7
	received := make([]sinkMessage, 0, wantRows)
	for len(received) < wantRows {
		received = append(received, readSink(ctx, t, consumer))
	}

	counts := map[string]int{}
	linesByKey := map[string][]int{}
	for _, sm := range received {
		counts[sm.Event.RecordType]++
		linesByKey[sm.Key] = append(linesByKey[sm.Key], sm.Event.Line)

		assert.Equal(t, sm.Event.Family, sm.Headers["family"])
		assert.Equal(t, sm.Event.RecordType, sm.Headers["record_type"])
		_, err := time.Parse(time.RFC3339, sm.Headers["processed_at"])
		assert.NoError(t, err, "invalid processed_at format")
	}

	assert.Equal(t, 2, counts["AWOS1"])
	assert.Equal(t, 2, counts["AWOS2"])
	assert.Equal(t, 3, counts["ARB"])

	// Lines sharing a locator share a partition, so they arrive in file order.
	assert.Equal(t, []int{1, 2}, linesByKey["AWOS:AMW"])
	assert.Equal(t, []int{3, 5}, linesByKey["AWOS:BKX"])

	for _, sm := range received {
		if sm.Key != "AWOS:AMW" || sm.Event.RecordType != "AWOS1" {
			continue
		}
		assert.Equal(t, "AWOS-3PT", sm.Event.Fields["A1"])
		assert.Equal(t, "1996-10-01", sm.Event.Fields["A3"])
		assert.InDelta(t, 118075, sm.Event.Fields["A8"], 0)
		assert.Nil(t, sm.Event.Fields["A9"])
	}
}
