package handler

import (
	"net/http"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dto"
	"biblioteca/internal/service"

	"github.com/gin-gonic/gin"
)

type LibrosHandler struct{ svc service.LibroService }

func NewLibrosHandler(svc service.LibroService) *LibrosHandler { return &LibrosHandler{svc: svc} }

// Crear godoc
// @Summary      Añadir un libro al catálogo
// @Tags         libros
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearLibroRequest true "Datos del libro"
// @Success      201  {object} dto.LibroResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/libros [post]
func (h *LibrosHandler) Crear(c *gin.Context) {
	var req dto.CrearLibroRequest
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
// @Summary      Listar el catálogo completo
// @Tags         libros
// @Produce      json
// @Success      200  {array} dto.LibroResponse
// @Router       /v1/libros [get]
func (h *LibrosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary      Buscar un libro por un único criterio
// @Description  Busca un libro por exactamente uno de: isbn, titulo o autor. Titulo y autor admiten coincidencia parcial sin distinguir mayúsculas.
// @Tags         libros
// @Produce      json
// @Param        isbn   query string false "ISBN del libro"
// @Param        titulo query string false "Título (parcial)"
// @Param        autor  query string false "Autor (parcial)"
// @Success      200  {object} dto.LibroResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/libros/buscar [get]
func (h *LibrosHandler) Buscar(c *gin.Context) {
	var filter dto.BuscarLibroFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	criterios := 0
	for _, v := range []string{filter.ISBN, filter.Titulo, filter.Autor} {
		if v != "" {
			criterios++
		}
	}
	if criterios != 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Debes proporcionar exactamente un criterio de búsqueda: isbn, titulo o autor"))
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar los metadatos de un libro
// @Description  Actualiza título, autor, precio, género, fecha de publicación o resumen. El stock pertenece a préstamos/ventas y no puede modificarse aquí.
// @Tags         libros
// @Accept       json
// @Produce      json
// @Param        isbn path string true "ISBN del libro"
// @Param        body body dto.ActualizarLibroRequest true "Campos a actualizar"
// @Success      200  {object} dto.LibroResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/libros/{isbn} [patch]
func (h *LibrosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarLibroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("isbn"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un libro del catálogo
// @Description  Rechaza la eliminación con 409 mientras exista un préstamo abierto que referencie el libro.
// @Tags         libros
// @Produce      json
// @Param        isbn path string true "ISBN del libro"
// @Success      200  {object} dto.LibroResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/libros/{isbn} [delete]
func (h *LibrosHandler) Eliminar(c *gin.Context) {
	resp, err := h.svc.Eliminar(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
