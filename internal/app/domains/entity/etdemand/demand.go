package etdemand

import (
	"errors"
	"fmt"
)

// MinTextLength is the admission floor for texto_original.
const MinTextLength = 10

// DemandMessage is the unit moved through the task queue. It is built once
// by the submission service and never mutated afterwards; redeliveries
// carry the exact same content, id_processamento included.
type DemandMessage struct {
	ProcessingID string   `json:"id_processamento"`
	DemandID     string   `json:"id_demanda"`
	Text         string   `json:"texto_original"`
	Categories   []string `json:"categorias_disponiveis"`
	CallbackURL  string   `json:"url_callback"`
}

// ClassificationResult is what the classification collaborator returns.
type ClassificationResult struct {
	Summary    string  `json:"sumario"`
	Category   string  `json:"categoria_sugerida"`
	Confidence float64 `json:"confiabilidade"`
}

// CallbackPayload is POSTed to the caller-supplied webhook.
type CallbackPayload struct {
	DemandID     string               `json:"id_demanda"`
	ProcessingID string               `json:"id_processamento"`
	Result       ClassificationResult `json:"resultado"`
}

// NewDemandMessage builds an immutable queue message.
func NewDemandMessage(processingID, demandID, text string, categories []string, callbackURL string) *DemandMessage {
	return &DemandMessage{
		ProcessingID: processingID,
		DemandID:     demandID,
		Text:         text,
		Categories:   categories,
		CallbackURL:  callbackURL,
	}
}

// Validate checks the invariants every queued message must hold. The worker
// runs it on dequeue as a guard against foreign messages on the queue.
func (m *DemandMessage) Validate() error {
	if m.ProcessingID == "" {
		return errors.New("id_processamento is empty")
	}
	if m.DemandID == "" {
		return errors.New("id_demanda is empty")
	}
	if len(m.Text) < MinTextLength {
		return fmt.Errorf("texto_original shorter than %d characters", MinTextLength)
	}
	if len(m.Categories) == 0 {
		return errors.New("categorias_disponiveis is empty")
	}
	if m.CallbackURL == "" {
		return errors.New("url_callback is empty")
	}
	return nil
}

// Validate checks the collaborator contract on a returned result.
func (r *ClassificationResult) Validate() error {
	if r.Summary == "" {
		return errors.New("sumario is empty")
	}
	if r.Category == "" {
		return errors.New("categoria_sugerida is empty")
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("confiabilidade %.3f outside [0.0, 1.0]", r.Confidence)
	}
	return nil
}

// HasCategory reports whether category is one of the submitted candidates.
func (m *DemandMessage) HasCategory(category string) bool {
	for _, c := range m.Categories {
		if c == category {
			return true
		}
	}
	return false
}
