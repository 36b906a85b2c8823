package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixlink/marketplace-core/internal/apperr"
)

// Отображение таксономии ошибок ядра на HTTP-статусы.
// InvalidState наружу отдаётся как 400 с собственным kind в теле —
// так отвечала исходная система на запрещённые переходы.
func httpStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidState:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail пишет типизированную ошибку в ответ. Внутренние сбои
// логируются, наружу уходит непрозрачное сообщение.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	message := "server error"
	var e *apperr.Error
	if errors.As(err, &e) && kind != apperr.KindInternal {
		message = e.Message
	}
	if kind == apperr.KindInternal {
		log.Printf("internal error: %v", err)
	}

	c.JSON(httpStatus(kind), gin.H{
		"kind":    kind,
		"message": message,
	})
}
