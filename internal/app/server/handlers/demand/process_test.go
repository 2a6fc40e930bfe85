package demand

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmar02/tccprot/internal/app/domains/services/svdemand"
	"github.com/gmar02/tccprot/internal/app/infra/mq"
	"github.com/gmar02/tccprot/internal/app/server/middlewares"
	"github.com/gmar02/tccprot/pkg/ginx"
	"github.com/gmar02/tccprot/pkg/logger"
)

func setupRouter(queue mq.TaskQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ginx.RegisterTagNames()

	log := logger.NewNop()
	svc := svdemand.NewDemandService(queue, "tasks", log)
	handler := NewDemandHandler(svc, log)

	r := gin.New()
	r.Use(middlewares.CORS())
	r.POST("/processar", handler.Process)
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/processar", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"id_demanda": "D1",
	"texto-original": "Cliente solicita reembolso urgente do pedido 123",
	"categorias-disponiveis": ["financeiro", "suporte"],
	"url-callback": "http://example.test/cb"
}`

func TestProcessValidSubmission(t *testing.T) {
	queue := mq.NewMemoryQueue()
	r := setupRouter(queue)

	w := postJSON(r, validBody)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp ginx.AcceptedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ProcessingID)
	assert.Equal(t, "D1", resp.ClientDemandID)
	assert.Equal(t, ginx.StatusQueued, resp.Status)
	assert.Equal(t, 1, queue.Pending("tasks"))
}

func TestProcessShortTextRejected(t *testing.T) {
	queue := mq.NewMemoryQueue()
	r := setupRouter(queue)

	w := postJSON(r, `{
		"id_demanda": "D1",
		"texto-original": "curto",
		"categorias-disponiveis": ["financeiro"],
		"url-callback": "http://example.test/cb"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ginx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Detail, "texto-original")
	assert.Contains(t, resp.Detail, "10")
	assert.Equal(t, 0, queue.Pending("tasks"))
}

func TestProcessMissingFieldsRejected(t *testing.T) {
	cases := map[string]string{
		"missing id_demanda": `{
			"texto-original": "Cliente solicita reembolso urgente",
			"categorias-disponiveis": ["financeiro"],
			"url-callback": "http://example.test/cb"
		}`,
		"empty categories": `{
			"id_demanda": "D1",
			"texto-original": "Cliente solicita reembolso urgente",
			"categorias-disponiveis": [],
			"url-callback": "http://example.test/cb"
		}`,
		"malformed callback url": `{
			"id_demanda": "D1",
			"texto-original": "Cliente solicita reembolso urgente",
			"categorias-disponiveis": ["financeiro"],
			"url-callback": "not a url"
		}`,
		"not json": `{{{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			queue := mq.NewMemoryQueue()
			r := setupRouter(queue)

			w := postJSON(r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, queue.Pending("tasks"), "queue must stay untouched on validation failure")
		})
	}
}

func TestProcessQueueUnavailable(t *testing.T) {
	queue := mq.NewMemoryQueue()
	queue.SetFailing(true)
	r := setupRouter(queue)

	w := postJSON(r, validBody)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ginx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 0, queue.Pending("tasks"))
}
