package models

import (
	"time"
)

// Document 已摄取的文档记录
type Document struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	Filename   string    `gorm:"column:filename;size:255;not null" json:"filename"`
	UploadTime time.Time `gorm:"column:upload_time;not null;index" json:"upload_time"`
}

func (Document) TableName() string {
	return "documents"
}

// QuestionLog 问答记录，关联回答时参与检索的文档
type QuestionLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text" json:"answer"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`

	Documents []Document `gorm:"many2many:question_documents;" json:"documents,omitempty"`
}

func (QuestionLog) TableName() string {
	return "question_logs"
}
