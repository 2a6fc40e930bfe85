package worker

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/gmar02/tccprot/internal/app/domains/services/svcallback"
	"github.com/gmar02/tccprot/internal/app/domains/services/svclassify"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/pkg/logger"
)

// Manager runs N independent worker instances against the same queue.
// The queue arbitrates deliveries, so the instances share nothing.
type Manager struct {
	instances []*Instance
	cancel    context.CancelFunc
	closing   *atomic.Bool
	wg        sync.WaitGroup
	logger    logger.Logger
}

// NewManager builds count instances with shared dependencies.
func NewManager(
	count int,
	cfg Config,
	queue mq.TaskQueue,
	classifier svclassify.Classifier,
	dispatcher *svcallback.Dispatcher,
	dedup DedupStore,
	log logger.Logger,
) *Manager {
	if count < 1 {
		count = 1
	}

	instances := make([]*Instance, 0, count)
	for i := 0; i < count; i++ {
		instances = append(instances, NewInstance(i, cfg, queue, classifier, dispatcher, dedup, log))
	}

	return &Manager{
		instances: instances,
		closing:   atomic.NewBool(false),
		logger:    log,
	}
}

// Start launches every instance in its own goroutine and returns.
func (m *Manager) Start(parentCtx context.Context) {
	ctx, cancel := context.WithCancel(parentCtx)
	m.cancel = cancel

	m.logger.Infof(ctx, "starting %d worker instance(s)", len(m.instances))
	for _, inst := range m.instances {
		w := inst
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Run(ctx)
		}()
	}
}

// Shutdown stops consumption and waits for in-flight messages to finish.
// Safe to call more than once.
func (m *Manager) Shutdown() {
	if !m.closing.CAS(false, true) {
		return
	}

	m.logger.Infof(context.Background(), "shutting down workers")
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.logger.Infof(context.Background(), "all workers exited")
}
