package demand

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gmar02/tccprot/internal/app/domains/apimodel/request"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/pkg/ginx"
)

// Process handles demand submission.
// POST /processar
func (h *DemandHandler) Process(c *gin.Context) {
	var req request.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	msg, err := h.demandService.Submit(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, mq.ErrUnavailable) {
			h.logger.Errorf(c.Request.Context(), "queue unreachable: %v", err)
			ginx.ServiceUnavailable(c, "Serviço de fila indisponível, tente novamente mais tarde")
			return
		}
		h.logger.Errorf(c.Request.Context(), "enqueue failed: %v", err)
		ginx.InternalError(c, "Erro interno ao enfileirar a demanda")
		return
	}

	ginx.Accepted(c, msg.ProcessingID, msg.DemandID)
}
