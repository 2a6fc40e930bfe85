package demand

import (
	"github.com/gmar02/tccprot/internal/app/domains/services/svdemand"
	"github.com/gmar02/tccprot/pkg/logger"
)

// DemandHandler is the HTTP handler for demand submission.
type DemandHandler struct {
	demandService *svdemand.DemandService
	logger        logger.Logger
}

// NewDemandHandler creates the handler.
func NewDemandHandler(demandService *svdemand.DemandService, log logger.Logger) *DemandHandler {
	return &DemandHandler{
		demandService: demandService,
		logger:        log,
	}
}
