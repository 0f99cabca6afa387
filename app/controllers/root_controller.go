package controllers

import (
	"net/http"
)

// RootController 服务根路径
type RootController struct {
	BaseController
}

// Index 服务信息
func (c *RootController) Index() {
	c.JSON(http.StatusOK, map[string]interface{}{
		"service": "docqa",
		"status":  "running",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
}

// Health 存活探针
func (c *HealthController) Health() {
	c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
