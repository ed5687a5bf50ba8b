package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mochkris/compras-api/internal/application/dto"
	"github.com/mochkris/compras-api/internal/application/requisition"
	"github.com/mochkris/compras-api/pkg/validate"
)

// RequisitionHandler maneja las peticiones HTTP de requisiciones (protegido).
type RequisitionHandler struct {
	createUC    *requisition.CreateUseCase
	signUC      *requisition.SignUseCase
	custodianUC *requisition.CustodianCheckUseCase
	generateUC  *requisition.GeneratePOUseCase
	queryUC     *requisition.QueryUseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(
	createUC *requisition.CreateUseCase,
	signUC *requisition.SignUseCase,
	custodianUC *requisition.CustodianCheckUseCase,
	generateUC *requisition.GeneratePOUseCase,
	queryUC *requisition.QueryUseCase,
) *RequisitionHandler {
	return &RequisitionHandler{
		createUC:    createUC,
		signUC:      signUC,
		custodianUC: custodianUC,
		generateUC:  generateUC,
		queryUC:     queryUC,
	}
}

// Create godoc
// @Summary      Crear requisición de material
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Datos de la requisición"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	r, err := h.createUC.Create(c.UserContext(), in, GetUserID(c), GetUserName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRequisitionResponse(r))
}

// List godoc
// @Summary      Listar requisiciones
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.RequisitionResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	out, err := h.queryUC.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de una requisición con historial
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) Get(c *fiber.Ctx) error {
	out, err := h.queryUC.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sign godoc
// @Summary      Firmar una requisición pendiente (aprobar o rechazar)
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.SignRequisitionRequest  true  "Decisión del aprobador"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/sign [post]
func (h *RequisitionHandler) Sign(c *fiber.Ctx) error {
	var in dto.SignRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.signUC.Sign(c.UserContext(), c.Params("id"), in, GetUserID(c), GetUserName(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToRequisitionResponse(r))
}

// CustodianCheck godoc
// @Summary      Verificación de bodega de una requisición aprobada
// @Description  Con stock suficiente entrega y deduce inventario (y dispara
// @Description  auto-reposición si el stock queda bajo el umbral); si no,
// @Description  reenvía la requisición a compras sin tocar stock.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/custodian-check [post]
func (h *RequisitionHandler) CustodianCheck(c *fiber.Ctx) error {
	r, err := h.custodianUC.Check(c.UserContext(), c.Params("id"), GetUserID(c), GetUserName(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToRequisitionResponse(r))
}

// GeneratePO godoc
// @Summary      Generar orden de compra desde una requisición reenviada
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.GeneratePORequest  true  "Proveedor elegido"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/purchase-order [post]
func (h *RequisitionHandler) GeneratePO(c *fiber.Ctx) error {
	var in dto.GeneratePORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	po, err := h.generateUC.Generate(c.UserContext(), c.Params("id"), in, GetUserID(c), GetUserName(c), GetRole(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPOResponse(po, ""))
}
