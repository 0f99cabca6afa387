package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aihub/docqa-go/internal/logger"
	"github.com/aihub/docqa-go/internal/services"
)

// DocumentController 文档上传与摄取
type DocumentController struct {
	BaseController
	qaService *services.QAService
}

// NewDocumentController 创建文档控制器
func NewDocumentController(qaService *services.QAService) *DocumentController {
	return &DocumentController{qaService: qaService}
}

// Upload 接收multipart文件，提取文本并重建问答流水线
// POST /api/documents/upload
func (c *DocumentController) Upload() {
	if err := c.Ctx.Request.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		c.JSONError(http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := c.Ctx.Request.MultipartForm.File["files"]
	if len(files) == 0 {
		c.JSONError(http.StatusBadRequest, "no files uploaded")
		return
	}

	result, err := c.qaService.IngestFiles(c.Ctx.Request.Context(), files)
	if err != nil {
		logger.Warn("ingest failed", zap.Error(err))
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(result)
}
