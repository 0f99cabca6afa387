package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// OCRClient 外部OCR服务客户端。图片的文字识别由独立服务承担，
// 本服务只向其提交图片字节并取回识别文本
type OCRClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewOCRClient 创建OCR客户端，endpoint为空时客户端不可用
func NewOCRClient(endpoint string, timeout time.Duration) *OCRClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OCRClient{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ready 是否已配置OCR服务
func (c *OCRClient) Ready() bool {
	return c != nil && c.endpoint != ""
}

type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Recognize 识别图片中的文字
func (c *OCRClient) Recognize(ctx context.Context, imageBytes []byte, filename string) (string, error) {
	if !c.Ready() {
		return "", errors.New("ocr service not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(imageBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Filename", filename)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ocr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result ocrResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ocr service error: %s", result.Error)
	}

	return result.Text, nil
}

// ImageParser 图片解析器，委托OCR服务识别文字
type ImageParser struct {
	ocr *OCRClient
}

// NewImageParser 创建图片解析器
func NewImageParser(ocr *OCRClient) *ImageParser {
	return &ImageParser{ocr: ocr}
}

func (p *ImageParser) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".png" || ext == ".jpg" || ext == ".jpeg"
}

func (p *ImageParser) Parse(reader io.Reader, filename string) (string, error) {
	if !p.ocr.Ready() {
		return "", errors.New("ocr service not configured")
	}

	imageBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return p.ocr.Recognize(context.Background(), imageBytes, filename)
}
