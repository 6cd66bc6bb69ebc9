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

type LeadHandler struct {
	leadService services.LeadService
}

func NewLeadHandler(leadService services.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func (lh *LeadHandler) Create(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		City      string `json:"city"`
		State     string `json:"state"`
		ZipCode   string `json:"zip_code"`

		PropertyType     string           `json:"property_type"`
		EstimatedValue   *decimal.Decimal `json:"estimated_value"`
		ReasonForSelling string           `json:"reason_for_selling"`
		Timeline         string           `json:"timeline"`

		AssignedToID *uuid.UUID `json:"assigned_to_id"`
		Notes        string     `json:"notes"`
		NextFollowUp *time.Time `json:"next_follow_up"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	lead := types.Lead{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		PropertyType:     req.PropertyType,
		EstimatedValue:   req.EstimatedValue,
		ReasonForSelling: req.ReasonForSelling,
		Timeline:         req.Timeline,
		AssignedToID:     req.AssignedToID,
		Notes:            req.Notes,
		NextFollowUp:     req.NextFollowUp,
	}
	created, err := lh.leadService.Create(c.Request.Context(), &lead)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (lh *LeadHandler) Get(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	lead, err := lh.leadService.Get(c.Request.Context(), leadID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (lh *LeadHandler) List(c *gin.Context) {
	filter := repos.LeadFilter{
		Search: c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := lifecycle.ParseLeadStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("assigned_to_id"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_to_id"})
			return
		}
		filter.AssignedToID = &assigneeID
	}
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	leads, err := lh.leadService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (lh *LeadHandler) Update(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	var req struct {
		ExpectedVersion int `json:"expected_version"`

		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		State     *string `json:"state"`
		ZipCode   *string `json:"zip_code"`

		PropertyType     *string          `json:"property_type"`
		EstimatedValue   *decimal.Decimal `json:"estimated_value"`
		ReasonForSelling *string          `json:"reason_for_selling"`
		Timeline         *string          `json:"timeline"`

		AssignedToID *uuid.UUID `json:"assigned_to_id"`
		Notes        *string    `json:"notes"`
		NextFollowUp *time.Time `json:"next_follow_up"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExpectedVersion <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected_version is required"})
		return
	}
	in := services.LeadUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		PropertyType:     req.PropertyType,
		EstimatedValue:   req.EstimatedValue,
		ReasonForSelling: req.ReasonForSelling,
		Timeline:         req.Timeline,
		AssignedToID:     req.AssignedToID,
		Notes:            req.Notes,
		NextFollowUp:     req.NextFollowUp,
	}
	lead, err := lh.leadService.Update(c.Request.Context(), leadID, req.ExpectedVersion, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (lh *LeadHandler) UpdateStatus(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
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
	lead, err := lh.leadService.UpdateStatus(c.Request.Context(), leadID, req.Status, req.ExpectedVersion)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (lh *LeadHandler) Delete(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	if err := lh.leadService.Delete(c.Request.Context(), leadID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
