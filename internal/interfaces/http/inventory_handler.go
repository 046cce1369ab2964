package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/application/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/infrastructure/ubl"
)

// maxUBLSize tope del XML de factura de proveedor aceptado.
const maxUBLSize = 5 << 20

// InventoryHandler maneja las peticiones HTTP del kardex (protegido).
type InventoryHandler struct {
	uc     *inventory.KardexUseCase
	report inventory.StockReportGenerator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.KardexUseCase, report inventory.StockReportGenerator) *InventoryHandler {
	return &InventoryHandler{uc: uc, report: report}
}

// GetStock godoc
// @Summary      Existencias y costo promedio por producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	list, err := h.uc.GetAllStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToStockResponse(s))
	}
	return c.JSON(out)
}

// GetStockReport godoc
// @Summary      Informe PDF de valorización del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/report.pdf [get]
func (h *InventoryHandler) GetStockReport(c *fiber.Ctx) error {
	pdf, err := h.uc.StockReport(c.Context(), h.report)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}

// ListMovements godoc
// @Summary      Consultar el kardex
// @Description  Filtra por documento (doc_ref) o por producto (product_key); sin filtros devuelve todo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        doc_ref      query  string  false  "Referencia del documento"
// @Param        product_key  query  string  false  "Clave normalizada del producto"
// @Success      200  {array}   dto.MovementResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var filter dto.MovementFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// ImportPurchases godoc
// @Summary      Importar documento de compra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  entity.PurchaseDocument  true  "Documento de compra"
// @Success      200   {object}  dto.PurchaseImportResult
// @Failure      400   {object}  dto.PurchaseImportResult
// @Router       /api/inventory/purchases [post]
func (h *InventoryHandler) ImportPurchases(c *fiber.Ctx) error {
	var doc entity.PurchaseDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return h.applyPurchases(c, doc)
}

// ImportPurchasesUBL godoc
// @Summary      Importar factura electrónica de proveedor (UBL 2.1)
// @Description  Acepta el XML como cuerpo (application/xml) o como archivo multipart en el campo "file".
// @Tags         inventory
// @Security     Bearer
// @Accept       xml
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "XML de la factura"
// @Success      200   {object}  dto.PurchaseImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/purchases/ubl [post]
func (h *InventoryHandler) ImportPurchasesUBL(c *fiber.Ctx) error {
	raw, err := ublPayload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	doc, err := ubl.ParsePurchase(bytes.NewReader(raw))
	if err != nil {
		return writeError(c, err)
	}
	return h.applyPurchases(c, doc)
}

func (h *InventoryHandler) applyPurchases(c *fiber.Ctx, doc entity.PurchaseDocument) error {
	res, err := h.uc.ApplyPurchasesFromDocument(c.Context(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusOK, res)
}

func ublPayload(c *fiber.Ctx) ([]byte, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, errors.New("campo 'file' requerido")
		}
		if fh.Size > maxUBLSize {
			return nil, errors.New("archivo demasiado grande")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxUBLSize))
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, errors.New("XML vacío")
	}
	if len(body) > maxUBLSize {
		return nil, errors.New("archivo demasiado grande")
	}
	return body, nil
}

// RevertLastPurchaseImport godoc
// @Summary      Revertir la última importación de compras
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReversalResult
// @Failure      404  {object}  dto.ReversalResult
// @Failure      409  {object}  dto.ReversalResult
// @Router       /api/inventory/purchases/revert-last [post]
func (h *InventoryHandler) RevertLastPurchaseImport(c *fiber.Ctx) error {
	res, err := h.uc.RevertLastPurchaseImport(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusOK, res)
}

// ApplySales godoc
// @Summary      Registrar salidas de un documento de venta
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  entity.SaleDocument  true  "Documento de venta"
// @Success      200   {object}  dto.SaleApplyResult
// @Failure      400   {object}  dto.SaleApplyResult
// @Failure      409   {object}  dto.SaleApplyResult
// @Router       /api/inventory/sales [post]
func (h *InventoryHandler) ApplySales(c *fiber.Ctx) error {
	var doc entity.SaleDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.ApplySalesFromDocument(c.Context(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusOK, res)
}

// ValidateSale godoc
// @Summary      Validar existencias antes de emitir una venta
// @Description  Responde 200 con ok=false y la primera línea con problema cuando no hay stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  entity.SaleDocument  true  "Documento de venta (solo se usan las líneas)"
// @Success      200   {object}  dto.StockValidationResult
// @Router       /api/inventory/sales/validate [post]
func (h *InventoryHandler) ValidateSale(c *fiber.Ctx) error {
	var doc entity.SaleDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.ValidateStockForSale(c.Context(), doc.Lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// RevertSales godoc
// @Summary      Revertir las salidas de un documento de venta
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  entity.SaleDocument  true  "Documento de venta a revertir"
// @Success      200   {object}  dto.ReversalResult
// @Failure      404   {object}  dto.ReversalResult
// @Failure      409   {object}  dto.ReversalResult
// @Router       /api/inventory/sales/revert [post]
func (h *InventoryHandler) RevertSales(c *fiber.Ctx) error {
	var doc entity.SaleDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.RevertSalesFromDocument(c.Context(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusOK, res)
}

// RevertSalesByDocRef godoc
// @Summary      Revertir las salidas de una venta por referencia
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        docRef  path  string  true  "Referencia del documento de venta"
// @Success      200     {object}  dto.ReversalResult
// @Failure      404     {object}  dto.ReversalResult
// @Failure      409     {object}  dto.ReversalResult
// @Router       /api/inventory/sales/{docRef} [delete]
func (h *InventoryHandler) RevertSalesByDocRef(c *fiber.Ctx) error {
	docRef, err := url.PathUnescape(c.Params("docRef"))
	if err != nil || strings.TrimSpace(docRef) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "docRef es requerido"})
	}
	res, err := h.uc.RevertSalesByDocRef(c.Context(), docRef)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusOK, res)
}

// ApplyAdjustment godoc
// @Summary      Ajuste manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualAdjustmentRequest  true  "code, direction (IN|OUT), qty, unitCost (IN), reason, date"
// @Success      201   {object}  dto.AdjustmentResult
// @Failure      400   {object}  dto.AdjustmentResult
// @Failure      409   {object}  dto.AdjustmentResult
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.ManualAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.ApplyManualAdjustment(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return writeOutcome(c, res.Outcome, fiber.StatusCreated, res)
}

// Clear godoc
// @Summary      Reiniciar el inventario (borra kardex y existencias)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        confirm  query  bool  true  "Debe ser true"
// @Success      200  {object}  dto.ClearResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory [delete]
func (h *InventoryHandler) Clear(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return writeError(c, fmt.Errorf("%w: confirme con ?confirm=true", domain.ErrInvalidInput))
	}
	res, err := h.uc.ClearInventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
