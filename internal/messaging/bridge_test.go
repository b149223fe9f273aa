package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/rabbitmq"
)

type publishedMsg struct {
	Body          string
	CorrelationID string
}

type mockPublisher struct {
	published []publishedMsg
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, body []byte, correlationID string) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, publishedMsg{Body: string(body), CorrelationID: correlationID})
	return nil
}

// mockSubscriber hands the registered handler back to the test so it can
// play deliveries.
type mockSubscriber struct {
	handler rabbitmq.MessageHandler
	stopped bool
}

func (m *mockSubscriber) Start(handler rabbitmq.MessageHandler) error {
	m.handler = handler
	return nil
}

func (m *mockSubscriber) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockSubscriber) deliver(body string) error {
	return m.handler(amqp.Delivery{Body: []byte(body)})
}

func newTestBridge() (*Bridge, *mockPublisher, *mockSubscriber) {
	pub := &mockPublisher{}
	sub := &mockSubscriber{}
	return NewBridge(pub, sub, NewBuffer(DefaultCapacity), logger.NopLogger()), pub, sub
}

func TestSend_Publishes(t *testing.T) {
	bridge, pub, _ := newTestBridge()
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	res, err := bridge.Send(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, "Message sent successfully", res.Status)
	assert.Equal(t, "hello", res.Message)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "hello", pub.published[0].Body)
	assert.Equal(t, "corr-1", pub.published[0].CorrelationID)
}

func TestSend_BlankIsRejectedWithoutPublishing(t *testing.T) {
	bridge, pub, _ := newTestBridge()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := bridge.Send(context.Background(), text)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "Message cannot be empty", apperrors.ToErrorResponse(err)["error"])
	}
	assert.Empty(t, pub.published)
}

func TestSend_PublishFailureIsUpstream(t *testing.T) {
	bridge, pub, _ := newTestBridge()
	pub.err = errors.New("channel/connection is not open")

	_, err := bridge.Send(context.Background(), "hello")
	require.Error(t, err)

	assert.Equal(t, 500, apperrors.ToHTTPStatus(err))
	assert.Equal(t, "channel/connection is not open", apperrors.ToErrorResponse(err)["error"])
}

func TestReceived_CollectsDeliveries(t *testing.T) {
	bridge, _, sub := newTestBridge()
	require.NoError(t, bridge.Start())

	require.NoError(t, sub.deliver("first"))
	require.NoError(t, sub.deliver("second"))

	assert.Equal(t, []string{"first", "second"}, bridge.Received())
}

func TestReceived_EvictsOldestAfter51Deliveries(t *testing.T) {
	bridge, _, sub := newTestBridge()
	require.NoError(t, bridge.Start())

	for i := 1; i <= 51; i++ {
		require.NoError(t, sub.deliver(fmt.Sprintf("m%d", i)))
	}

	got := bridge.Received()
	assert.Len(t, got, 50)
	assert.NotContains(t, got, "m1")
	assert.Contains(t, got, "m51")
}

func TestStop_StopsSubscriber(t *testing.T) {
	bridge, _, sub := newTestBridge()
	require.NoError(t, bridge.Start())

	require.NoError(t, bridge.Stop())
	assert.True(t, sub.stopped)
}
