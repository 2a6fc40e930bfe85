package svdemand

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmar02/tccprot/internal/app/domains/apimodel/request"
	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/pkg/logger"
)

func validRequest() *request.ProcessRequest {
	return &request.ProcessRequest{
		DemandID:    "D1",
		Text:        "Cliente solicita reembolso urgente do pedido 123",
		Categories:  []string{"financeiro", "suporte"},
		CallbackURL: "http://example.test/cb",
	}
}

func TestSubmitEnqueuesExactlyOneMessage(t *testing.T) {
	queue := mq.NewMemoryQueue()
	svc := NewDemandService(queue, "tasks", logger.NewNop())

	msg, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ProcessingID)
	assert.Equal(t, "D1", msg.DemandID)
	assert.Equal(t, 1, queue.Pending("tasks"))

	delivered, err := queue.Consume(context.Background(), "tasks", 100*time.Millisecond, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, delivered)

	var queued etdemand.DemandMessage
	require.NoError(t, json.Unmarshal(delivered.Body, &queued))
	assert.Equal(t, msg.ProcessingID, queued.ProcessingID)
	assert.Equal(t, "Cliente solicita reembolso urgente do pedido 123", queued.Text)
	assert.Equal(t, []string{"financeiro", "suporte"}, queued.Categories)
	assert.Equal(t, "http://example.test/cb", queued.CallbackURL)
	require.NoError(t, queued.Validate())
}

func TestSubmitAssignsFreshProcessingIDs(t *testing.T) {
	queue := mq.NewMemoryQueue()
	svc := NewDemandService(queue, "tasks", logger.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		msg, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		assert.False(t, seen[msg.ProcessingID], "processing id issued twice")
		seen[msg.ProcessingID] = true
	}
	assert.Equal(t, 50, queue.Pending("tasks"))
}

func TestSubmitPublishFailureLeavesNothingBehind(t *testing.T) {
	queue := mq.NewMemoryQueue()
	queue.SetFailing(true)
	svc := NewDemandService(queue, "tasks", logger.NewNop())

	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, mq.ErrUnavailable)
	assert.Equal(t, 0, queue.Pending("tasks"))
}
