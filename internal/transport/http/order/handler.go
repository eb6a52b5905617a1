package order

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/orderdesk/internal/board"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/dto"
	"github.com/Additional-Code/orderdesk/internal/entity"
	"github.com/Additional-Code/orderdesk/internal/presentation/http/response"
	service "github.com/Additional-Code/orderdesk/internal/service/order"
	"github.com/Additional-Code/orderdesk/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/orderdesk/transport/http/order")

// Handler exposes the order board over HTTP.
type Handler struct {
	svc      *service.Service
	validate *validator.Validate
	pres     dto.Presentation
	feeRate  float64
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
		pres: dto.Presentation{
			StoreSuffix: cfg.Dashboard.StoreSuffix,
			Placeholder: cfg.Dashboard.Placeholder,
		},
		feeRate: cfg.Dashboard.FeeRate,
	}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("", h.list)
	g.GET("/summary", h.summary)
	g.POST("", h.create)
	g.PUT("/:id/flags/:flag", h.setFlag)
	g.POST("/:id/flags/:flag/toggle", h.toggleFlag)
	g.DELETE("/:id", h.delete)
}

// list returns the shaped rows, newest order first, together with the
// summary recomputed over exactly those rows.
func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(errorbank.Internal("failed to load orders", errorbank.WithCause(err))).Build()
	}

	rows := dto.NewOrderRows(orders, h.pres)
	payload := struct {
		Orders  []dto.OrderRow `json:"orders"`
		Summary dto.Summary    `json:"summary"`
	}{
		Orders:  rows,
		Summary: board.Summarize(rows, h.feeRate),
	}

	return b.WithData(payload).Build()
}

func (h *Handler) summary(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.summary")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(errorbank.Internal("failed to load orders", errorbank.WithCause(err))).Build()
	}

	rows := dto.NewOrderRows(orders, h.pres)
	return b.WithData(board.Summarize(rows, h.feeRate)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if err := h.validate.Struct(payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	order := &entity.Order{
		Name:     payload.Name,
		Phone:    payload.Phone,
		StoreID:  payload.StoreID,
		BankCode: payload.BankCode,
		Note:     payload.Note,
		Calendar: entity.ProductLine{Quantity: payload.Calendar.Quantity, Signed: payload.Calendar.Signed},
		Polaroid: entity.ProductLine{Quantity: payload.Polaroid.Quantity, Signed: payload.Polaroid.Signed},
		Total:    payload.Total,
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	if err := h.svc.Create(ctx, order); err != nil {
		return b.WithError(err).Build()
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	return b.WithStatus(http.StatusCreated).WithData(dto.NewOrderRow(*order, h.pres)).Build()
}

// setFlag is the explicit set-to-value primitive.
func (h *Handler) setFlag(c echo.Context) error {
	b := response.New(c)

	id, flag := c.Param("id"), c.Param("flag")
	var payload struct {
		Value bool `json:"value"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.setFlag", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.flag", flag),
	))
	defer span.End()

	if err := h.svc.SetFlag(ctx, id, flag, payload.Value); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"id": id, "flag": flag, "value": payload.Value}).Build()
}

// toggleFlag negates the flag's current stored value.
func (h *Handler) toggleFlag(c echo.Context) error {
	b := response.New(c)

	id, flag := c.Param("id"), c.Param("flag")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.toggleFlag", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.flag", flag),
	))
	defer span.End()

	value, err := h.svc.Toggle(ctx, id, flag)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"id": id, "flag": flag, "value": value}).Build()
}

// delete requires the caller to restate intent via confirm=true; without it
// no store call is made. Deletion is irreversible.
func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	if c.QueryParam("confirm") != "true" {
		return b.WithError(errorbank.PreconditionRequired("deletion is irreversible; pass confirm=true to proceed")).Build()
	}

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}
