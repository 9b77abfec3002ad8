package status

import (
	"gateway-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for account status.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/lists", h.HandleGetLists)
	app.Get("/rules", h.HandleGetRules)
	app.Get("/rules/status", h.HandleSweep)
	app.Get("/rules/:id/status", h.HandleGetRuleStatus)
}

// HandleGetLists returns every list on the account.
func (h *Handler) HandleGetLists(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	lists, err := h.service.Lists(c.Context())
	if err != nil {
		l.Error("List enumeration failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(lists)
}

// HandleGetRules returns every rule with its decoded provenance.
func (h *Handler) HandleGetRules(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	rules, err := h.service.Rules(c.Context())
	if err != nil {
		l.Error("Rule enumeration failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(rules)
}

// HandleSweep classifies the update status of every managed rule.
func (h *Handler) HandleSweep(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.Sweep(c.Context())
	if err != nil {
		l.Error("Status sweep failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(reports)
}

// HandleGetRuleStatus classifies the update status of a single rule.
func (h *Handler) HandleGetRuleStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.RuleStatus(c.Context(), id)
	if err != nil {
		l.Error("Rule status check failed", zap.String("rule_id", id), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
