package svclassify

import (
	"context"

	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
)

// Classifier is the contract the worker needs from the text-analysis
// collaborator. Any failure is uniform from the caller's side: the whole
// message is retried.
type Classifier interface {
	Classify(ctx context.Context, text string, categories []string) (*etdemand.ClassificationResult, error)
}
