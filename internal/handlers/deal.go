package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealflowhq/dealflow-backend/internal/domain/lifecycle"
	"github.com/dealflowhq/dealflow-backend/internal/repos"
	"github.com/dealflowhq/dealflow-backend/internal/services"
	"github.com/dealflowhq/dealflow-backend/internal/types"
)

type DealHandler struct {
	dealService services.DealService
}

func NewDealHandler(dealService services.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

func (dh *DealHandler) Create(c *gin.Context) {
	var req struct {
		PropertyID  uuid.UUID       `json:"property_id"`
		LeadID      uuid.UUID       `json:"lead_id"`
		OfferPrice  decimal.Decimal `json:"offer_price"`
		ClosingDate *time.Time      `json:"closing_date"`
		Notes       string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	deal := types.Deal{
		PropertyID:  req.PropertyID,
		LeadID:      req.LeadID,
		OfferPrice:  req.OfferPrice,
		ClosingDate: req.ClosingDate,
		Notes:       req.Notes,
	}
	created, err := dh.dealService.Create(c.Request.Context(), &deal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (dh *DealHandler) Get(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}
	deal, err := dh.dealService.Get(c.Request.Context(), dealID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (dh *DealHandler) List(c *gin.Context) {
	var filter repos.DealFilter
	if raw := c.Query("status"); raw != "" {
		status, err := lifecycle.ParseDealStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("agent_id"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent_id"})
			return
		}
		filter.AgentID = &agentID
	}
	if raw := c.Query("property_id"); raw != "" {
		propertyID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property_id"})
			return
		}
		filter.PropertyID = &propertyID
	}
	if raw := c.Query("lead_id"); raw != "" {
		leadID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
			return
		}
		filter.LeadID = &leadID
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	deals, err := dh.dealService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (dh *DealHandler) Update(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}
	var req struct {
		ExpectedVersion int              `json:"expected_version"`
		OfferPrice      *decimal.Decimal `json:"offer_price"`
		ClosingDate     *time.Time       `json:"closing_date"`
		Notes           *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExpectedVersion <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_version is required"})
		return
	}
	in := services.DealUpdate{
		OfferPrice:  req.OfferPrice,
		ClosingDate: req.ClosingDate,
		Notes:       req.Notes,
	}
	deal, err := dh.dealService.Update(c.Request.Context(), dealID, req.ExpectedVersion, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (dh *DealHandler) UpdateStatus(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}
	var req struct {
		Status          string `json:"status"`
		ExpectedVersion int    `json:"expected_version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExpectedVersion <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_version is required"})
		return
	}
	deal, err := dh.dealService.UpdateStatus(c.Request.Context(), dealID, req.Status, req.ExpectedVersion)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (dh *DealHandler) Delete(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deal id"})
		return
	}
	if err := dh.dealService.Delete(c.Request.Context(), dealID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
