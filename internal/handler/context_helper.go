package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/middleware"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
)

func sessionFromContext(c *gin.Context) *models.Session {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil
	}
	return session
}

func requestMeta(c *gin.Context) service.RequestMeta {
	meta := service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if session := sessionFromContext(c); session != nil {
		meta.UserID = session.UserID
	}
	return meta
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pageParams(c *gin.Context) (page, size int) {
	return queryInt(c, "page", 1), queryInt(c, "page_size", 20)
}
