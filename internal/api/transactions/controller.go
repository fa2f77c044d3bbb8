package transactions

import (
	"errors"
	"net/http"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/Conversly/analytics-dashboard/internal/webhook"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Controller struct {
	repo      *repository.TransactionRepository
	processor *webhook.Processor
}

func NewController(repo *repository.TransactionRepository, processor *webhook.Processor) *Controller {
	return &Controller{repo: repo, processor: processor}
}

// List godoc
// @Summary List transactions, optionally for one user
// @Tags transactions
// @Produce json
// @Param userId query string false "User ID"
// @Success 200 {object} types.TransactionsResponse
// @Router /api/transactions [get]
func (ctrl *Controller) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		txs []types.Transaction
		err error
	)
	if userID := c.Query("userId"); userID != "" {
		txs, err = ctrl.repo.FindByUser(ctx, userID)
	} else {
		txs, err = ctrl.repo.All(ctx)
	}
	if err != nil {
		utils.Zlog.Error("Failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.TransactionsResponse{Transactions: txs})
}

func (ctrl *Controller) Get(c *gin.Context) {
	id := c.Param("id")
	tx, err := ctrl.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(http.StatusNotFound, "transaction "+id+" not found"))
		return
	}
	c.JSON(http.StatusOK, types.TransactionResponse{Transaction: *tx})
}

// Webhook godoc
// @Summary Receive a transaction.created webhook
// @Description Idempotent on idempotencyKey; redelivery returns the stored transaction.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body types.WebhookRequest true "Webhook"
// @Success 201 {object} types.WebhookResponse
// @Success 200 {object} types.WebhookResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /v1/webhooks/transactions [post]
func (ctrl *Controller) Webhook(c *gin.Context) {
	var req types.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("Invalid webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	res, err := ctrl.processor.Submit(c.Request.Context(), req.ToPayload(time.Now().UTC()))
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
		utils.Zlog.Error("Failed to process webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	if res.Transaction == nil {
		c.JSON(http.StatusConflict, types.NewErrorResponse(http.StatusConflict,
			"idempotency key already used but its transaction no longer exists"))
		return
	}

	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, types.WebhookResponse{Transaction: *res.Transaction, Message: res.Message})
}
