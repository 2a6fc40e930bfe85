package request

import (
	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
)

// ProcessRequest is the submission payload. Field names are the external
// contract; binding tags enforce the admission rules so nothing invalid
// ever reaches the queue.
type ProcessRequest struct {
	DemandID    string   `json:"id_demanda" binding:"required"`
	Text        string   `json:"texto-original" binding:"required,min=10"`
	Categories  []string `json:"categorias-disponiveis" binding:"required,min=1,dive,required"`
	CallbackURL string   `json:"url-callback" binding:"required,url"`
}

// ToDemandMessage builds the immutable queue message for this request.
func (r *ProcessRequest) ToDemandMessage(processingID string) *etdemand.DemandMessage {
	return etdemand.NewDemandMessage(processingID, r.DemandID, r.Text, r.Categories, r.CallbackURL)
}
