package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sondaTimeout bounds both connectivity checks; a stuck dependency must not
// hang the health endpoint.
const sondaTimeout = 3 * time.Second

// Health godoc
// @Summary Estado del servicio: Postgres (libros mayores) y Redis (caché de precios)
// @Tags    salud
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router  /health [get]
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), sondaTimeout)
		defer cancel()

		baseDatos := "conectada"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			baseDatos = "error"
		}

		cachePrecios := "conectada"
		if rdb.Ping(ctx).Err() != nil {
			cachePrecios = "error"
		}

		disponible := baseDatos == "conectada" && cachePrecios == "conectada"
		status := http.StatusOK
		if !disponible {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"disponible":   disponible,
			"baseDatos":    baseDatos,
			"cachePrecios": cachePrecios,
		})
	}
}
