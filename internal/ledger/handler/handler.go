package handler

import (
	"net/http"

	"github.com/fekuna/hotel-stock-service/internal/auth"
	"github.com/fekuna/hotel-stock-service/internal/ledger"
	"github.com/fekuna/hotel-stock-service/internal/ledger/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/i18n"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/fekuna/hotel-stock-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, tr *i18n.Translator, log logger.ZapLogger) *LedgerHandler {
	return &LedgerHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *LedgerHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/items/:code/balance", h.GetItemBalance)
	rg.GET("/balances", h.ListBalances)
	rg.POST("/transactions", h.RecordTransaction)
	rg.GET("/transactions", h.ListTransactions)
	rg.PUT("/transactions/:id", h.EditTransaction)
	rg.DELETE("/transactions/:id", h.DeleteTransaction)
	rg.GET("/reports/stock", h.StockReport)
}

type movementRequest struct {
	ItemCode string `json:"item_code"`
	Date     string `json:"date"`
	InQty    int64  `json:"in_qty"`
	OutQty   int64  `json:"out_qty"`
	Remark   string `json:"remark"`
}

func (h *LedgerHandler) RecordTransaction(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, h.tr, err)
		return
	}

	ctx := c.Request.Context()
	txn, err := h.uc.RecordTransaction(ctx, &dto.RecordTransactionInput{
		ItemCode:   req.ItemCode,
		Date:       req.Date,
		InQty:      req.InQty,
		OutQty:     req.OutQty,
		Remark:     req.Remark,
		RecordedBy: auth.GetUserID(ctx),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// EditTransaction replaces the movement; item_code in the body is ignored.
func (h *LedgerHandler) EditTransaction(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, h.tr, err)
		return
	}

	txn, err := h.uc.EditTransaction(c.Request.Context(), &dto.EditTransactionInput{
		ID:     c.Param("id"),
		Date:   req.Date,
		InQty:  req.InQty,
		OutQty: req.OutQty,
		Remark: req.Remark,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *LedgerHandler) DeleteTransaction(c *gin.Context) {
	if err := h.uc.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	txns, err := h.uc.ListTransactions(c.Request.Context(), &dto.TransactionFilters{
		ItemCode: c.Query("item_code"),
		Kind:     model.ItemKind(c.Query("kind")),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Query:    c.Query("q"),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns, "total": len(txns)})
}

func (h *LedgerHandler) GetItemBalance(c *gin.Context) {
	b, err := h.uc.GetItemBalance(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *LedgerHandler) ListBalances(c *gin.Context) {
	balances, err := h.uc.ListBalances(c.Request.Context(), &dto.BalanceFilters{
		Kind:  model.ItemKind(c.Query("kind")),
		Query: c.Query("q"),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances, "total": len(balances)})
}

func (h *LedgerHandler) StockReport(c *gin.Context) {
	rows, err := h.uc.StockReport(c.Request.Context(), &dto.ReportFilters{
		Kind: model.ItemKind(c.Query("kind")),
		From: c.Query("from"),
		To:   c.Query("to"),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from": c.Query("from"),
		"to":   c.Query("to"),
		"rows": rows,
	})
}
