package handler

import (
	"net/http"

	"github.com/fekuna/hotel-stock-service/internal/item"
	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/i18n"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"github.com/fekuna/hotel-stock-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	uc     item.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, tr *i18n.Translator, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *ItemHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/items", h.CreateItem)
	rg.GET("/items", h.ListItems)
	rg.GET("/items/:code", h.GetItem)
	rg.PUT("/items/:code", h.UpdateItem)
	rg.DELETE("/items/:code", h.DeleteItem)
}

type createItemRequest struct {
	Kind           model.ItemKind `json:"kind"`
	ItemCode       string         `json:"item_code"`
	ItemName       string         `json:"item_name"`
	Category       string         `json:"category"`
	OpeningBalance int64          `json:"opening_balance"`
}

type updateItemRequest struct {
	ItemName string `json:"item_name"`
	Category string `json:"category"`
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, h.tr, err)
		return
	}

	it, err := h.uc.CreateItem(c.Request.Context(), &dto.CreateItemInput{
		Kind:           req.Kind,
		ItemCode:       req.ItemCode,
		ItemName:       req.ItemName,
		Category:       req.Category,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context(), &dto.ItemFilters{
		Kind:  model.ItemKind(c.Query("kind")),
		Query: c.Query("q"),
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	it, err := h.uc.GetItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// UpdateItem edits name and category. Code and opening balance in the body are ignored.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, h.tr, err)
		return
	}

	it, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateItemInput{
		ItemCode: c.Param("code"),
		ItemName: req.ItemName,
		Category: req.Category,
	})
	if err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.uc.DeleteItem(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, h.tr, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
