package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/aihub/docqa-go/internal/logger"
	"github.com/aihub/docqa-go/internal/services"
)

// QAController 问答接口
type QAController struct {
	BaseController
	qaService *services.QAService
}

// NewQAController 创建问答控制器
func NewQAController(qaService *services.QAService) *QAController {
	return &QAController{qaService: qaService}
}

// Ask 基于当前语料回答问题
// POST /api/qa/ask
func (c *QAController) Ask() {
	var req services.AskRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := c.qaService.Ask(c.Ctx.Request.Context(), &req)
	if err != nil {
		logger.Warn("ask failed", zap.String("question", req.Question), zap.Error(err))
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(resp)
}
