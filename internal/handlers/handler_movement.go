package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	portssvc "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/services"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/dto"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// movementHandler handles HTTP requests for the movement ledger.
type movementHandler struct {
	movementService portssvc.MovementSvcFacade
}

// RegisterMovementRoutes wires the movement endpoints onto the router group.
func RegisterMovementRoutes(rg *gin.RouterGroup, movementService portssvc.MovementSvcFacade) {
	h := &movementHandler{movementService: movementService}

	movements := rg.Group("/movement")
	{
		movements.GET("", h.listMovements)
		movements.GET("/:id", h.getMovement)
		movements.POST("", h.createMovement)
		movements.PUT("/:id", h.updateMovement)
		movements.DELETE("/:id", h.deleteMovement)
		movements.GET("/client/:clientId", h.listByClient)
		movements.GET("/product/:productId", h.listByProductAndDateRange)
		movements.POST("/transfer", h.transfer)
		movements.POST("/pay-third-party", h.payThirdParty)
	}
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrSameClient),
		errors.Is(err, apperrors.ErrInvalidDestination):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		logger.Error("Remote collaborator unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "a collaborating service is unavailable"})
	default:
		logger.Error("Unexpected error handling request", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// listMovements godoc
// @Summary List all movements
// @Tags movements
// @Produce json
// @Success 200 {array} dto.MovementResponse
// @Router /movement [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	movements, err := h.movementService.ListMovements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// getMovement godoc
// @Summary Get a movement by id
// @Tags movements
// @Produce json
// @Param id path string true "Movement ID"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string
// @Router /movement/{id} [get]
func (h *movementHandler) getMovement(c *gin.Context) {
	movement, err := h.movementService.GetMovementByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// createMovement godoc
// @Summary Admit a new movement
// @Description Validates the movement against the product's business rules,
// @Description updates the product balance and persists the ledger entry.
// @Tags movements
// @Accept json
// @Produce json
// @Param movement body dto.CreateMovementRequest true "Proposed movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /movement [post]
func (h *movementHandler) createMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	movement, err := h.movementService.CreateMovement(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// updateMovement godoc
// @Summary Replace a movement by id
// @Tags movements
// @Accept json
// @Produce json
// @Param id path string true "Movement ID"
// @Param movement body dto.UpdateMovementRequest true "Replacement movement"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string
// @Router /movement/{id} [put]
func (h *movementHandler) updateMovement(c *gin.Context) {
	var req dto.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	movement, err := h.movementService.UpdateMovement(c.Request.Context(), c.Param("id"), req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// deleteMovement godoc
// @Summary Delete a movement by id
// @Tags movements
// @Param id path string true "Movement ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /movement/{id} [delete]
func (h *movementHandler) deleteMovement(c *gin.Context) {
	if err := h.movementService.DeleteMovement(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listByClient godoc
// @Summary List movements for a client
// @Tags movements
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} dto.MovementResponse
// @Router /movement/client/{clientId} [get]
func (h *movementHandler) listByClient(c *gin.Context) {
	movements, err := h.movementService.ListMovementsByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// listByProductAndDateRange godoc
// @Summary List movements for a product within a date range
// @Tags movements
// @Produce json
// @Param productId path string true "Product ID"
// @Param from query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param to query string true "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {array} dto.MovementResponse
// @Failure 400 {object} map[string]string
// @Router /movement/product/{productId} [get]
func (h *movementHandler) listByProductAndDateRange(c *gin.Context) {
	from, err := time.ParseInLocation(dateLayout, c.Query("from"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.ParseInLocation(dateLayout, c.Query("to"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, expected YYYY-MM-DD"})
		return
	}

	movements, err := h.movementService.ListMovementsByProductAndDateRange(c.Request.Context(), c.Param("productId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// transfer godoc
// @Summary Transfer an amount between two products
// @Tags movements
// @Produce json
// @Param fromProductId query string true "Source product ID"
// @Param toProductId query string true "Destination product ID"
// @Param amount query number true "Amount to transfer"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /movement/transfer [post]
func (h *movementHandler) transfer(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	err = h.movementService.Transfer(c.Request.Context(), c.Query("fromProductId"), c.Query("toProductId"), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer completed"})
}

// payThirdParty godoc
// @Summary Pay a third party's product
// @Tags movements
// @Accept json
// @Produce json
// @Param payment body dto.ThirdPartyPaymentRequest true "Payment details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /movement/pay-third-party [post]
func (h *movementHandler) payThirdParty(c *gin.Context) {
	var req dto.ThirdPartyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	err := h.movementService.PayThirdParty(c.Request.Context(), req.FromProductID, req.ToProductID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment completed"})
}
