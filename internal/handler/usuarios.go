package handler

import (
	"net/http"

	"biblioteca/internal/dto"
	"biblioteca/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar un usuario
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearUsuarioRequest true "Datos del usuario"
// @Success      201  {object} dto.UsuarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/usuarios [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
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
// @Summary      Listar usuarios
// @Tags         usuarios
// @Produce      json
// @Success      200  {array} dto.UsuarioResponse
// @Router       /v1/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary      Obtener un usuario por email
// @Tags         usuarios
// @Produce      json
// @Param        email path string true "Email del usuario"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/usuarios/{email} [get]
func (h *UsuariosHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.Buscar(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar un usuario
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        email path string true "Email del usuario"
// @Param        body body dto.ActualizarUsuarioRequest true "Campos a actualizar"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/usuarios/{email} [patch]
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un usuario
// @Description  Rechaza la eliminación con 409 mientras el usuario tenga un préstamo abierto.
// @Tags         usuarios
// @Produce      json
// @Param        email path string true "Email del usuario"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/usuarios/{email} [delete]
func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	resp, err := h.svc.Eliminar(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reactivar godoc
// @Summary      Reactivar un usuario sancionado
// @Tags         usuarios
// @Produce      json
// @Param        email path string true "Email del usuario"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/usuarios/{email}/reactivar [patch]
func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	resp, err := h.svc.Reactivar(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
