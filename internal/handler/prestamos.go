package handler

import (
	"net/http"

	"biblioteca/internal/dto"
	"biblioteca/internal/service"

	"github.com/gin-gonic/gin"
)

type PrestamosHandler struct{ svc service.PrestamoService }

func NewPrestamosHandler(svc service.PrestamoService) *PrestamosHandler {
	return &PrestamosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear un nuevo préstamo
// @Description  Registra un préstamo ACID: valida stock y usuario activo, inserta el préstamo y descuenta stock en una única transacción.
// @Tags         prestamos
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearPrestamoRequest true "Datos del préstamo"
// @Success      201  {object} dto.PrestamoResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/prestamos [post]
func (h *PrestamosHandler) Crear(c *gin.Context) {
	var req dto.CrearPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar préstamos
// @Description  Obtiene los préstamos filtrados por usuario, libro y estado (todos | prestados | devueltos).
// @Tags         prestamos
// @Produce      json
// @Param        idUsuario query string false "Email del usuario"
// @Param        idLibro   query string false "ISBN del libro"
// @Param        estado    query string false "todos | prestados | devueltos"
// @Success      200  {array} dto.PrestamoResponse
// @Router       /v1/prestamos [get]
func (h *PrestamosHandler) Listar(c *gin.Context) {
	var filter dto.PrestamoFilter
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

// Devolver godoc
// @Summary      Devolución de un préstamo
// @Description  Cierra el préstamo con la fecha real de devolución, restaura stock y sanciona al usuario si la devolución es tardía.
// @Tags         prestamos
// @Accept       json
// @Produce      json
// @Param        body body dto.DevolverPrestamoRequest true "Datos de la devolución"
// @Success      200  {object} dto.PrestamoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/prestamos [patch]
func (h *PrestamosHandler) Devolver(c *gin.Context) {
	var req dto.DevolverPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Devolver(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un préstamo
// @Description  Elimina el registro del préstamo abierto y restaura el stock del libro. No aplica sanciones.
// @Tags         prestamos
// @Produce      json
// @Param        idUsuario path string true "Email del usuario"
// @Param        idLibro   path string true "ISBN del libro"
// @Success      200  {object} dto.PrestamoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/prestamos/{idUsuario}/{idLibro} [delete]
func (h *PrestamosHandler) Eliminar(c *gin.Context) {
	resp, err := h.svc.Eliminar(c.Request.Context(), c.Param("idUsuario"), c.Param("idLibro"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
