package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/purchasing"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/internal/domain/entity"
	"github.com/mochkris/compras-api/pkg/validate"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra
// (protegido). Las transiciones de estado pasan todas por UpdateStatus.
type PurchaseOrderHandler struct {
	createUC     *purchasing.CreatePOUseCase
	transitionUC *purchasing.TransitionPOUseCase
	rateUC       *purchasing.RateSupplierUseCase
	queryUC      *purchasing.QueryPOUseCase
	pdfUC        *purchasing.PDFUseCase
	deliveryUC   *requisition.ReceiveDeliveryUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(
	createUC *purchasing.CreatePOUseCase,
	transitionUC *purchasing.TransitionPOUseCase,
	rateUC *purchasing.RateSupplierUseCase,
	queryUC *purchasing.QueryPOUseCase,
	pdfUC *purchasing.PDFUseCase,
	deliveryUC *requisition.ReceiveDeliveryUseCase,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		createUC:     createUC,
		transitionUC: transitionUC,
		rateUC:       rateUC,
		queryUC:      queryUC,
		pdfUC:        pdfUC,
		deliveryUC:   deliveryUC,
	}
}

// Create godoc
// @Summary      Crear orden de compra (borrador)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Datos de la orden"
// @Success      201   {object}  dto.POResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	po, err := h.createUC.Create(c.UserContext(), GetUserID(c), GetUserName(c), GetRole(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPOResponse(po, ""))
}

// List godoc
// @Summary      Listar órdenes de compra (visibilidad según rol)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.queryUC.List(c.UserContext(), GetUserID(c), GetRole(c), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de una orden de compra con historial
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.queryUC.Get(c.UserContext(), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Transicionar el estado de una orden de compra
// @Description  Única vía de cambio de estado. Valida arista, rol y
// @Description  precondiciones; aplica efectos (asignación, factura,
// @Description  recepción con ingreso a inventario) atómicamente.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdatePOStatusRequest  true  "Estado destino y datos de la transición"
// @Success      200   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *PurchaseOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdatePOStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return writeError(c, err)
	}

	items := make([]purchasing.ReceivedItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, purchasing.ReceivedItem{
			ItemID:          it.ItemID,
			Quantity:        it.QuantityReceived,
			DiscrepancyNote: it.DiscrepancyNote,
		})
	}

	po, err := h.transitionUC.Transition(c.UserContext(), purchasing.TransitionInput{
		POID:          c.Params("id"),
		Target:        entity.POStatus(in.Status),
		ActorID:       GetUserID(c),
		ActorName:     GetUserName(c),
		ActorRole:     GetRole(c),
		Notes:         in.Notes,
		AssignedTo:    in.AssignedTo,
		InvoiceNumber: in.InvoiceNumber,
		Items:         items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPOResponse(po, ""))
}

// AddRating godoc
// @Summary      Calificar al proveedor de una orden recibida
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.AddRatingRequest  true  "Calificación (1–5 por dimensión)"
// @Success      201   {object}  dto.RatingResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/ratings [post]
func (h *PurchaseOrderHandler) AddRating(c *fiber.Ctx) error {
	var in dto.AddRatingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	rating, err := h.rateUC.Rate(c.UserContext(), purchasing.RateInput{
		POID:      c.Params("id"),
		ActorID:   GetUserID(c),
		ActorName: GetUserName(c),
		ActorRole: GetRole(c),
		Req:       in,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RatingResponse{
		ID:             rating.ID,
		POID:           rating.POID,
		SupplierID:     rating.SupplierID,
		DeliveryRating: rating.DeliveryRating,
		QualityRating:  rating.QualityRating,
		PriceRating:    rating.PriceRating,
		Notes:          rating.Notes,
		CreatedAt:      rating.CreatedAt,
	})
}

// Stats godoc
// @Summary      Estadísticas de las órdenes del owner autenticado
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.POStatsResponse
// @Router       /api/purchase-orders/stats [get]
func (h *PurchaseOrderHandler) Stats(c *fiber.Ctx) error {
	out, err := h.queryUC.Stats(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar el PDF de una orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.Generate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ReceiveDelivery godoc
// @Summary      Registrar la entrega de una orden comprada (bodega)
// @Description  Entrega conforme: ingresa stock y completa la orden.
// @Description  Entrega dañada: cancela la orden (devolución al proveedor).
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceiveDeliveryRequest  true  "Resultado de la inspección"
// @Success      200   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/delivery [post]
func (h *PurchaseOrderHandler) ReceiveDelivery(c *fiber.Ctx) error {
	var in dto.ReceiveDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.deliveryUC.Receive(c.UserContext(), c.Params("id"), in, GetUserID(c), GetUserName(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPOResponse(po, ""))
}
