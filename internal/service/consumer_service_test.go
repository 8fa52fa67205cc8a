package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLine struct {
	level   string
	message string
	details map[string]interface{}
}

type captureLogger struct {
	mu    sync.Mutex
	lines []logLine
}

var _ logger.ILogger = (*captureLogger)(nil)

func (l *captureLogger) add(level, msg string, d map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level, msg, d})
}

func (l *captureLogger) Debug(_, msg string, d map[string]interface{}) { l.add("debug", msg, d) }
func (l *captureLogger) Info(_, msg string, d map[string]interface{})  { l.add("info", msg, d) }
func (l *captureLogger) Warn(_, msg string, d map[string]interface{})  { l.add("warn", msg, d) }
func (l *captureLogger) Error(_, msg string, d map[string]interface{}) { l.add("error", msg, d) }
func (l *captureLogger) Sync() error                                   { return nil }

func (l *captureLogger) snapshot() []logLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logLine(nil), l.lines...)
}

func TestConsumerLogsPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	log := &captureLogger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, log, events.TypeIndexBuilt, events.TypeFeedbackGenerated).Consume(ctx))

	pub := events.NewChannelPublisher(pubSub)
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeIndexBuilt, map[string]interface{}{"document_key": "12"})))
	require.NoError(t, pub.Publish(ctx, events.New(events.TypeConversationDeployed, nil)))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	line := log.snapshot()[0]
	assert.Equal(t, "info", line.level)
	assert.Equal(t, events.TypeIndexBuilt, line.message)
	assert.Equal(t, map[string]interface{}{"document_key": "12"}, line.details["data"])
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	log := &captureLogger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, log, events.TypeIndexBuilt).Consume(ctx))

	require.NoError(t, pubSub.Publish(events.Subject(events.TypeIndexBuilt), message.NewMessage(watermill.NewUUID(), []byte("{"))))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "error", log.snapshot()[0].level)
}
