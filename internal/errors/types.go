package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	ErrCodeInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"

	// 参数错误
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	// 文档处理错误
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrCodeEmptyCorpus      ErrorCode = "EMPTY_CORPUS"

	// 问答流水线错误
	ErrCodePipelineNotReady ErrorCode = "PIPELINE_NOT_READY"
	ErrCodeIndexBuildFailed ErrorCode = "INDEX_BUILD_FAILED"

	// 外部服务错误
	ErrCodeProviderFailed   ErrorCode = "PROVIDER_ERROR"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
)

// ErrorType 错误类型
type ErrorType int

const (
	ErrorTypeSystem ErrorType = iota
	ErrorTypeBusiness
	ErrorTypeValidation
	ErrorTypeExternal
)

// AppError 应用错误结构体
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Type     ErrorType   `json:"type"`
	HTTPCode int         `json:"-"`
	Details  interface{} `json:"details,omitempty"`
	Cause    error       `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加错误详情
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// 错误构造函数

// NewConfigError 创建参数配置错误（分块大小、topK等非法取值）
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidConfig,
		Message:  message,
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewInvalidInputError 创建输入无效错误
func NewInvalidInputError(field, reason string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("invalid input for field '%s': %s", field, reason),
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewExtractionError 创建文本提取错误（单个文件解析/OCR失败）
func NewExtractionError(filename string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeExtractionFailed,
		Message:  fmt.Sprintf("failed to extract text from %s", filename),
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusBadRequest,
		Cause:    cause,
	}
}

// NewEmptyCorpusError 创建空语料错误（全部文件提取后无有效文本）
func NewEmptyCorpusError() *AppError {
	return &AppError{
		Code:     ErrCodeEmptyCorpus,
		Message:  "no text extracted from uploaded documents",
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewNotReadyError 创建流水线未就绪错误（尚未成功摄取任何语料）
func NewNotReadyError() *AppError {
	return &AppError{
		Code:     ErrCodePipelineNotReady,
		Message:  "no document uploaded yet",
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusConflict,
	}
}

// NewIndexBuildError 创建索引构建错误（向量化阶段失败，摄取整体失败）
func NewIndexBuildError(cause error) *AppError {
	return &AppError{
		Code:     ErrCodeIndexBuildFailed,
		Message:  "failed to build vector index",
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
		Cause:    cause,
	}
}

// NewProviderError 创建外部模型服务错误（embedding后端失败或超时）
func NewProviderError(provider string, cause error) *AppError {
	return &AppError{
		Code:     ErrCodeProviderFailed,
		Message:  fmt.Sprintf("%s provider request failed", provider),
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
		Cause:    cause,
	}
}

// NewGenerationError 创建答案生成错误（生成后端失败或超时）
func NewGenerationError(cause error) *AppError {
	return &AppError{
		Code:     ErrCodeGenerationFailed,
		Message:  "answer generation failed",
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
		Cause:    cause,
	}
}

// NewSystemError 创建系统错误
func NewSystemError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInternalServer,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

// HasCode 检查错误链上是否存在指定错误码的AppError
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConfigError 检查是否为参数配置错误
func IsConfigError(err error) bool { return HasCode(err, ErrCodeInvalidConfig) }

// IsExtractionError 检查是否为文本提取错误
func IsExtractionError(err error) bool { return HasCode(err, ErrCodeExtractionFailed) }

// IsEmptyCorpusError 检查是否为空语料错误
func IsEmptyCorpusError(err error) bool { return HasCode(err, ErrCodeEmptyCorpus) }

// IsNotReadyError 检查是否为流水线未就绪错误
func IsNotReadyError(err error) bool { return HasCode(err, ErrCodePipelineNotReady) }

// IsIndexBuildError 检查是否为索引构建错误
func IsIndexBuildError(err error) bool { return HasCode(err, ErrCodeIndexBuildFailed) }

// IsProviderError 检查是否为外部模型服务错误
func IsProviderError(err error) bool { return HasCode(err, ErrCodeProviderFailed) }

// IsGenerationError 检查是否为答案生成错误
func IsGenerationError(err error) bool { return HasCode(err, ErrCodeGenerationFailed) }

// GetAppError 获取AppError，如果不是则包装为系统错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewSystemError("internal server error").WithCause(err)
}
