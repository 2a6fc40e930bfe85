package ginx

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// AcceptedResponse is the body returned when a demand is queued.
type AcceptedResponse struct {
	ProcessingID   string `json:"id_processamento"`
	ClientDemandID string `json:"id_demanda_cliente"`
	Status         string `json:"status"`
	Message        string `json:"mensagem"`
}

// ErrorResponse is the body returned on every failure path.
type ErrorResponse struct {
	Error  string `json:"Erro"`
	Detail string `json:"detalhe,omitempty"`
}

// StatusQueued is the status reported for a freshly enqueued demand.
const StatusQueued = "EM_FILA"

// Accepted answers 202 with the processing id assigned to the demand.
func Accepted(c *gin.Context, processingID, demandID string) {
	c.JSON(http.StatusAccepted, AcceptedResponse{
		ProcessingID:   processingID,
		ClientDemandID: demandID,
		Status:         StatusQueued,
		Message:        "Demanda recebida e enfileirada para processamento.",
	})
}

// BadRequest answers 400 with the violated rule.
func BadRequest(c *gin.Context, erro, detalhe string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: erro, Detail: detalhe})
}

// BadRequestWithValidation answers 400 translating validator errors into
// field-level details.
func BadRequestWithValidation(c *gin.Context, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, validationMessage(fieldErr))
		}
		BadRequest(c, "Erro de validação no payload", strings.Join(details, "; "))
		return
	}
	BadRequest(c, "Payload inválido", err.Error())
}

// ServiceUnavailable answers 503 (queueing service unreachable).
func ServiceUnavailable(c *gin.Context, erro string) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: erro})
}

// InternalError answers 500.
func InternalError(c *gin.Context, erro string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: erro})
}

// validationMessage maps a validator tag to a caller-facing message.
func validationMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("campo '%s' é obrigatório", field)
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("campo '%s' deve ter no mínimo %s caracteres", field, fieldErr.Param())
		}
		return fmt.Sprintf("campo '%s' deve conter no mínimo %s item(ns)", field, fieldErr.Param())
	case "url":
		return fmt.Sprintf("campo '%s' deve ser uma URL válida", field)
	default:
		return fmt.Sprintf("campo '%s' é inválido", field)
	}
}

// RegisterTagNames makes validator errors report JSON field names
// (e.g. "texto-original") instead of Go struct field names.
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
