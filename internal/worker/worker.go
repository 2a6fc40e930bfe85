package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
	"github.com/gmar02/tccprot/internal/app/domains/services/svcallback"
	"github.com/gmar02/tccprot/internal/app/domains/services/svclassify"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/pkg/logger"
)

// DedupStore marks processing ids whose result already went out, so a
// redelivered message does not repeat the collaborator call. Optional.
type DedupStore interface {
	MarkDelivered(ctx context.Context, processingID string) (bool, error)
	Delivered(ctx context.Context, processingID string) (bool, error)
}

// Config bounds the instance's blocking points.
type Config struct {
	QueueName       string
	ConsumeTimeout  time.Duration
	TTR             time.Duration
	ClassifyTimeout time.Duration
	CallbackTimeout time.Duration
	ErrorBackoff    time.Duration
}

// Instance is a single sequential consumer: blocking receive, process,
// ack or nack, repeat. Parallelism comes from running more instances
// against the same queue, never from concurrency inside one.
type Instance struct {
	id         int
	cfg        Config
	queue      mq.TaskQueue
	classifier svclassify.Classifier
	dispatcher *svcallback.Dispatcher
	dedup      DedupStore
	logger     logger.Logger
}

// NewInstance creates one worker instance. dedup may be nil.
func NewInstance(
	id int,
	cfg Config,
	queue mq.TaskQueue,
	classifier svclassify.Classifier,
	dispatcher *svcallback.Dispatcher,
	dedup DedupStore,
	log logger.Logger,
) *Instance {
	return &Instance{
		id:         id,
		cfg:        cfg,
		queue:      queue,
		classifier: classifier,
		dispatcher: dispatcher,
		dedup:      dedup,
		logger:     log,
	}
}

// Run consumes until ctx is cancelled.
func (w *Instance) Run(ctx context.Context) {
	ctx = context.WithValue(ctx, logger.WorkerIDKey, w.id)
	w.logger.Infof(ctx, "worker %d started on queue %s", w.id, w.cfg.QueueName)

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof(ctx, "worker %d stopping", w.id)
			return
		default:
		}

		msg, err := w.queue.Consume(ctx, w.cfg.QueueName, w.cfg.ConsumeTimeout, w.cfg.TTR)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Infof(ctx, "worker %d stopping", w.id)
				return
			}
			w.logger.Warnf(ctx, "consume error: %v, backing off", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.ErrorBackoff):
			}
			continue
		}
		if msg == nil {
			// Empty queue, wait again.
			continue
		}

		// Shutdown stops new consumes but the in-flight message drains;
		// its own classify/callback timeouts still bound it.
		w.process(context.WithoutCancel(ctx), msg)
	}
}

// process runs the per-message state machine:
//
//	RECEIVED -> CLASSIFYING -> {CALLBACK_SENT | CALLBACK_FAILED} -> ACKNOWLEDGED
//	RECEIVED -> CLASSIFICATION_FAILED -> REQUEUED
//
// A callback failure never requeues: the classification already succeeded
// and requeueing would repeat a paid collaborator call to fix an unrelated
// delivery problem.
func (w *Instance) process(ctx context.Context, msg *mq.Message) {
	var demand etdemand.DemandMessage
	if err := json.Unmarshal(msg.Body, &demand); err != nil {
		w.logger.Errorf(ctx, "message %s is not a demand: %v", msg.ID, err)
		w.nack(ctx, msg)
		return
	}
	if err := demand.Validate(); err != nil {
		w.logger.Errorf(ctx, "message %s failed validation: %v", msg.ID, err)
		w.nack(ctx, msg)
		return
	}

	ctx = context.WithValue(ctx, logger.TraceIDKey, demand.ProcessingID)
	w.logger.Infof(ctx, "processing demand: id_demanda=%s", demand.DemandID)

	// A replay whose callback already went out is acked without touching
	// the collaborator again.
	if w.alreadyDelivered(ctx, demand.ProcessingID) {
		w.logger.Infof(ctx, "result already delivered, skipping redelivery")
		w.ack(ctx, msg)
		return
	}

	classifyCtx, cancel := context.WithTimeout(ctx, w.cfg.ClassifyTimeout)
	result, err := w.classifier.Classify(classifyCtx, demand.Text, demand.Categories)
	cancel()
	if err != nil {
		w.logger.Errorf(ctx, "classification failed, requeueing: %v", err)
		w.nack(ctx, msg)
		return
	}

	if !demand.HasCategory(result.Category) {
		// Collaborator contract violation; deliver anyway, keep it visible.
		w.logger.Warnf(ctx, "categoria_sugerida %q not among submitted categories", result.Category)
	}

	payload := &etdemand.CallbackPayload{
		DemandID:     demand.DemandID,
		ProcessingID: demand.ProcessingID,
		Result:       *result,
	}

	callbackCtx, cancel := context.WithTimeout(ctx, w.cfg.CallbackTimeout)
	err = w.dispatcher.Deliver(callbackCtx, demand.CallbackURL, payload)
	cancel()
	if err != nil {
		// Observability only; the message is still acknowledged.
		w.logger.Errorf(ctx, "callback delivery failed: url=%s, error=%v", demand.CallbackURL, err)
	}

	w.markDelivered(ctx, demand.ProcessingID)
	w.ack(ctx, msg)
}

func (w *Instance) ack(ctx context.Context, msg *mq.Message) {
	if err := w.queue.Ack(ctx, w.cfg.QueueName, msg.ID); err != nil {
		w.logger.Errorf(ctx, "ack failed for %s: %v", msg.ID, err)
	}
}

func (w *Instance) nack(ctx context.Context, msg *mq.Message) {
	if err := w.queue.Nack(ctx, w.cfg.QueueName, msg.ID); err != nil {
		w.logger.Errorf(ctx, "nack failed for %s: %v", msg.ID, err)
	}
}

// alreadyDelivered consults the dedup store; store failures read as "not
// delivered" so availability wins over deduplication.
func (w *Instance) alreadyDelivered(ctx context.Context, processingID string) bool {
	if w.dedup == nil {
		return false
	}
	delivered, err := w.dedup.Delivered(ctx, processingID)
	if err != nil {
		w.logger.Warnf(ctx, "dedup lookup failed: %v", err)
		return false
	}
	return delivered
}

func (w *Instance) markDelivered(ctx context.Context, processingID string) {
	if w.dedup == nil {
		return
	}
	if _, err := w.dedup.MarkDelivered(ctx, processingID); err != nil {
		w.logger.Warnf(ctx, "dedup mark failed: %v", err)
	}
}
