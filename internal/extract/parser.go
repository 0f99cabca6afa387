package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	apperrors "github.com/aihub/docqa-go/internal/errors"
)

// Parser 单一格式的文本提取器
type Parser interface {
	Parse(reader io.Reader, filename string) (string, error)
	Supports(filename string) bool
}

// TextParser 纯文本文件解析器
type TextParser struct{}

func (p *TextParser) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".txt" || ext == ".md" || ext == ".markdown"
}

func (p *TextParser) Parse(reader io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// PDFParser PDF文件解析器，逐页提取内嵌文本
type PDFParser struct{}

func (p *PDFParser) Supports(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".pdf"
}

func (p *PDFParser) Parse(reader io.Reader, filename string) (string, error) {
	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(pdfBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get pdf page count: %w", err)
	}

	// 单页失败跳过，保留其余页面的文本
	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// DocxParser Word文档解析器
type DocxParser struct{}

func (p *DocxParser) Supports(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".docx"
}

func (p *DocxParser) Parse(reader io.Reader, filename string) (string, error) {
	docBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}

	readerAt := bytes.NewReader(docBytes)
	doc, err := document.Read(readerAt, int64(len(docBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// Manager 按文件名后缀分发到对应解析器
type Manager struct {
	parsers []Parser
}

// NewManager 创建解析器管理器
func NewManager(parsers ...Parser) *Manager {
	return &Manager{parsers: parsers}
}

// DefaultManager 返回内置解析器集合（文本、PDF、DOCX、图片OCR）
func DefaultManager(ocr *OCRClient) *Manager {
	return NewManager(
		&TextParser{},
		&PDFParser{},
		&DocxParser{},
		NewImageParser(ocr),
	)
}

// Supports 是否有解析器支持该文件
func (m *Manager) Supports(filename string) bool {
	for _, parser := range m.parsers {
		if parser.Supports(filename) {
			return true
		}
	}
	return false
}

// Extract 提取单个文件的文本，失败返回该文件的提取错误
func (m *Manager) Extract(reader io.Reader, filename string) (string, error) {
	for _, parser := range m.parsers {
		if !parser.Supports(filename) {
			continue
		}
		text, err := parser.Parse(reader, filename)
		if err != nil {
			return "", apperrors.NewExtractionError(filename, err)
		}
		return text, nil
	}
	return "", apperrors.NewExtractionError(filename,
		fmt.Errorf("unsupported file type %q", filepath.Ext(filename)))
}
