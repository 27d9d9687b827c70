package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homework-portal/backend/internal/model"
	"github.com/homework-portal/backend/internal/service"
)

type relationshipService interface {
	Create(ctx context.Context, practitionerID int64, clientLabel string) (*model.RelationshipCreatedResponse, error)
	Access(ctx context.Context, practitionerID int64, id string) (*model.RelationshipAccess, error)
	Archive(ctx context.Context, practitionerID int64, id string) error
}

type RelationshipHandler struct {
	svc relationshipService
}

func NewRelationshipHandler(svc relationshipService) *RelationshipHandler {
	return &RelationshipHandler{svc: svc}
}

// CreateRelationship godoc
// @Summary Create a relationship and its portal link
// @Tags relationships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateRelationshipRequest true "Client label"
// @Success 201 {object} model.RelationshipCreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/relationships [post]
func (h *RelationshipHandler) CreateRelationship(c *gin.Context) {
	practitioner := GetAuthPractitioner(c)
	if practitioner == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), practitioner.ID, req.ClientLabel)
	if err != nil {
		writeRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetRelationshipAccess godoc
// @Summary Get portal access state of a relationship
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Relationship ID"
// @Success 200 {object} model.RelationshipAccess
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/relationships/{id} [get]
func (h *RelationshipHandler) GetRelationshipAccess(c *gin.Context) {
	practitioner := GetAuthPractitioner(c)
	if practitioner == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	access, err := h.svc.Access(c.Request.Context(), practitioner.ID, c.Param("id"))
	if err != nil {
		writeRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

// ArchiveRelationship godoc
// @Summary Archive a relationship
// @Description Soft delete. The portal link stops resolving.
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path string true "Relationship ID"
// @Success 200 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/relationships/{id} [delete]
func (h *RelationshipHandler) ArchiveRelationship(c *gin.Context) {
	practitioner := GetAuthPractitioner(c)
	if practitioner == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Archive(c.Request.Context(), practitioner.ID, c.Param("id")); err != nil {
		writeRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.StatusResponse{Status: "archived"})
}

func writeRelationshipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
