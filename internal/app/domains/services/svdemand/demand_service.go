package svdemand

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gmar02/tccprot/internal/app/domains/apimodel/request"
	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/pkg/logger"
)

// DemandService admits validated demands into the task queue. The request
// has already passed schema validation by the time it gets here; this
// layer assigns the processing id and publishes durably.
type DemandService struct {
	queue     mq.TaskQueue
	queueName string
	logger    logger.Logger
}

// NewDemandService creates the submission service.
func NewDemandService(queue mq.TaskQueue, queueName string, log logger.Logger) *DemandService {
	return &DemandService{
		queue:     queue,
		queueName: queueName,
		logger:    log,
	}
}

// Submit assigns a fresh processing id, builds the demand message and
// publishes it. Exactly one durable message per successful call; any
// failure leaves no partial state behind.
func (s *DemandService) Submit(ctx context.Context, req *request.ProcessRequest) (*etdemand.DemandMessage, error) {
	msg := req.ToDemandMessage(uuid.New().String())

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal demand message failed: %w", err)
	}

	if err := s.queue.Publish(ctx, s.queueName, body); err != nil {
		return nil, fmt.Errorf("publish demand failed: %w", err)
	}

	s.logger.Infof(ctx, "demand enqueued: id_processamento=%s, id_demanda=%s", msg.ProcessingID, msg.DemandID)
	return msg, nil
}
