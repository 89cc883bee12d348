package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"biblioteca/internal/apierror"
	"biblioteca/internal/dto"
	"biblioteca/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPrecioHandler serves the public price/availability lookup.
// Read-only, no side effects; entries are cached in Redis and invalidated by
// the catalog service on book updates.
type ConsultaPrecioHandler struct {
	repo repository.LibroRepository
	rdb  *redis.Client
}

func NewConsultaPrecioHandler(repo repository.LibroRepository, rdb *redis.Client) *ConsultaPrecioHandler {
	return &ConsultaPrecioHandler{repo: repo, rdb: rdb}
}

// GetPrecioPorISBN godoc
// @Summary Consulta de precio y disponibilidad por ISBN
// @Tags    precio
// @Produce json
// @Param   isbn path string true "ISBN del libro"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router  /v1/precio/{isbn} [get]
func (h *ConsultaPrecioHandler) GetPrecioPorISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	ctx := c.Request.Context()
	cacheKey := "precio:" + isbn

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ConsultaPrecioResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	libro, err := h.repo.FindByISBN(ctx, isbn)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Libro no encontrado"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ConsultaPrecioResponse{
		Titulo:          libro.Titulo,
		Autor:           libro.Autor,
		Precio:          libro.Precio,
		StockDisponible: libro.Stock,
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
