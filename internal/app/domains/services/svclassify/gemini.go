package svclassify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/gmar02/tccprot/internal/app/domains/entity/etdemand"
	"github.com/gmar02/tccprot/pkg/errorutil"
	"github.com/gmar02/tccprot/pkg/logger"
)

// systemPrompt pins the collaborator to a concise Portuguese summary and a
// category drawn from the supplied list, answered as schema-bound JSON.
const systemPrompt = `Você é um assistente de IA especialista em análise de texto e classificação de demandas.
Sua tarefa é analisar um texto, criar um sumário conciso e classificá-lo em uma das categorias fornecidas.
Você DEVE retornar sua resposta em um formato JSON válido, de acordo com o schema solicitado.
O sumário deve ser em português e focado nos pontos principais e na ação necessária.
A confiabilidade deve ser um número flutuante entre 0.0 (totalmente incerto) e 1.0 (totalmente certo).
Analise o sentimento e a urgência no texto para ajudar na classificação.`

// responseSchema forces the three required result fields.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sumario": {
			Type:        genai.TypeString,
			Description: "Um sumário conciso do texto original em português.",
		},
		"categoria_sugerida": {
			Type:        genai.TypeString,
			Description: "A categoria mais apropriada da lista fornecida.",
		},
		"confiabilidade": {
			Type:        genai.TypeNumber,
			Description: "Um score de confiança (0.0 a 1.0) para a categoria sugerida.",
		},
	},
	Required: []string{"sumario", "categoria_sugerida", "confiabilidade"},
}

// GeminiClassifier implements Classifier over the Gemini API.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewGeminiClassifier creates a Gemini-backed classifier. The API key is
// required; without it every classification would fail and the queue
// would spin, so construction refuses instead.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration, log logger.Logger) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		return nil, errors.New("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}

	return &GeminiClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  log,
	}, nil
}

// Classify sends the document and candidate categories to Gemini and
// decodes the schema-bound JSON answer. Every failure comes back as a
// retryable error so the worker requeues the whole message.
func (c *GeminiClassifier) Classify(ctx context.Context, text string, categories []string) (*etdemand.ClassificationResult, error) {
	prompt, err := buildUserPrompt(text, categories)
	if err != nil {
		return nil, errorutil.RetriableWrap("build classification prompt failed", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(callCtx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	})
	if err != nil {
		return nil, errorutil.RetriableWrap("gemini call failed", err)
	}

	answer := resp.Text()
	if answer == "" {
		return nil, errorutil.Retriable("gemini response was empty")
	}

	result, err := decodeResult(answer)
	if err != nil {
		c.logger.Warnf(ctx, "discarding malformed gemini answer: %v", err)
		return nil, errorutil.RetriableWrap("gemini answer malformed", err)
	}

	return result, nil
}

// buildUserPrompt renders the per-demand prompt with the candidate list
// as a JSON array.
func buildUserPrompt(text string, categories []string) (string, error) {
	if text == "" {
		return "", errors.New("text is empty")
	}
	if len(categories) == 0 {
		return "", errors.New("categories are empty")
	}

	cats, err := json.Marshal(categories)
	if err != nil {
		return "", fmt.Errorf("marshal categories failed: %w", err)
	}

	return fmt.Sprintf(`Por favor, analise o texto abaixo e classifique-o.

**Texto Original:**
"%s"

**Categorias Disponíveis:**
%s

Forneça sua análise no formato JSON solicitado.`, text, cats), nil
}

// decodeResult parses the collaborator's textual answer and enforces the
// three-field contract.
func decodeResult(answer string) (*etdemand.ClassificationResult, error) {
	var result etdemand.ClassificationResult
	if err := json.Unmarshal([]byte(answer), &result); err != nil {
		return nil, fmt.Errorf("answer is not valid JSON: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}
