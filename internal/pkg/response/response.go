package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/cache"
	"github.com/fekuna/hotel-stock-service/internal/pkg/i18n"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error kinds returned in the "error" field.
const (
	KindValidation         = "validation_error"
	KindDuplicateItemCode  = "duplicate_item_code"
	KindUnknownItem        = "unknown_item"
	KindUnknownTransaction = "unknown_transaction"
	KindItemInUse          = "item_in_use"
	KindBusy               = "busy"
	KindInternal           = "internal_error"
)

type classified struct {
	status    int
	kind      string
	messageID string
}

func classify(err error) classified {
	switch {
	case errors.Is(err, model.ErrValidation):
		return classified{http.StatusBadRequest, KindValidation, "error.validation"}
	case errors.Is(err, model.ErrDuplicateItemCode):
		return classified{http.StatusConflict, KindDuplicateItemCode, "error.duplicate_item_code"}
	case errors.Is(err, model.ErrUnknownItem):
		return classified{http.StatusNotFound, KindUnknownItem, "error.unknown_item"}
	case errors.Is(err, model.ErrUnknownTransaction):
		return classified{http.StatusNotFound, KindUnknownTransaction, "error.unknown_transaction"}
	case errors.Is(err, model.ErrItemInUse):
		return classified{http.StatusConflict, KindItemInUse, "error.item_in_use"}
	case errors.Is(err, cache.ErrLockNotAcquired):
		return classified{http.StatusServiceUnavailable, KindBusy, "error.busy"}
	default:
		return classified{http.StatusInternalServerError, KindInternal, "error.generic"}
	}
}

// Error writes err as {"error", "message"[, "field", "detail"]}. Internal errors are logged, not echoed.
func Error(c *gin.Context, tr *i18n.Translator, log logger.ZapLogger, err error) {
	cl := classify(err)
	body := gin.H{
		"error":   cl.kind,
		"message": tr.T(c.GetHeader("Accept-Language"), cl.messageID),
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
		body["detail"] = ve.Reason
	}
	if cl.status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.AbortWithStatusJSON(cl.status, body)
}

// BadRequest reports a malformed request body as a validation error.
func BadRequest(c *gin.Context, tr *i18n.Translator, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   KindValidation,
		"message": tr.T(c.GetHeader("Accept-Language"), "error.validation"),
		"detail":  err.Error(),
	})
}
