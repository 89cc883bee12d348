package handler

import (
	"net/http"

	"biblioteca/internal/dto"
	"biblioteca/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: valida que quede al menos un ejemplar en circulación, aplica el descuento y descuenta stock en una única transacción.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Description  Obtiene las ventas filtradas por usuario, libro y rango de fechas inclusivo [fechaInicio, fechaFin].
// @Tags         ventas
// @Produce      json
// @Param        idUsuario   query string false "Email del usuario"
// @Param        idLibro     query string false "ISBN del libro"
// @Param        fechaInicio query string false "Fecha DD-MM-YYYY (default 01-01-1900)"
// @Param        fechaFin    query string false "Fecha DD-MM-YYYY (default hoy)"
// @Success      200  {array} dto.VentaResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
