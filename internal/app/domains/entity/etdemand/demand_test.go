package etdemand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() *DemandMessage {
	return NewDemandMessage("proc-1", "D1", "Cliente solicita reembolso", []string{"financeiro"}, "http://example.test/cb")
}

func TestDemandMessageValidate(t *testing.T) {
	require.NoError(t, valid().Validate())

	noID := valid()
	noID.ProcessingID = ""
	assert.Error(t, noID.Validate())

	shortText := valid()
	shortText.Text = "curto"
	assert.Error(t, shortText.Validate())

	noCategories := valid()
	noCategories.Categories = nil
	assert.Error(t, noCategories.Validate())

	noCallback := valid()
	noCallback.CallbackURL = ""
	assert.Error(t, noCallback.Validate())
}

func TestClassificationResultValidate(t *testing.T) {
	ok := &ClassificationResult{Summary: "s", Category: "financeiro", Confidence: 0.5}
	require.NoError(t, ok.Validate())

	assert.NoError(t, (&ClassificationResult{Summary: "s", Category: "c", Confidence: 0.0}).Validate())
	assert.NoError(t, (&ClassificationResult{Summary: "s", Category: "c", Confidence: 1.0}).Validate())

	assert.Error(t, (&ClassificationResult{Category: "c", Confidence: 0.5}).Validate())
	assert.Error(t, (&ClassificationResult{Summary: "s", Confidence: 0.5}).Validate())
	assert.Error(t, (&ClassificationResult{Summary: "s", Category: "c", Confidence: 1.2}).Validate())
	assert.Error(t, (&ClassificationResult{Summary: "s", Category: "c", Confidence: -0.2}).Validate())
}

func TestHasCategory(t *testing.T) {
	m := valid()
	assert.True(t, m.HasCategory("financeiro"))
	assert.False(t, m.HasCategory("suporte"))
}
