package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz представляет квиз, созданный пользователем.
// Вопросы — часть агрегата: при любом изменении набора вопросов
// весь список перезаписывается целиком (см. QuizRepository.Update).
type Quiz struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ShareCode   string  `gorm:"size:36;not null;uniqueIndex" json:"share_code"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text;not null;default:''" json:"description"`
	CreatedBy   uint    `gorm:"not null;index" json:"created_by"`
	Creator     User    `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	IsPublic    bool    `gorm:"not null;default:true;index" json:"is_public"`
	AccessPin   *string `gorm:"size:100" json:"-"` // только для приватных, никогда не отдается клиенту

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// BeforeCreate генерирует уникальный share-код для ссылок на квиз
func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ShareCode == "" {
		q.ShareCode = uuid.NewString()
	}
	return nil
}

// IsOwnedBy проверяет, принадлежит ли квиз пользователю.
// Единая проверка владения для всех мутирующих и привилегированных операций.
func (q *Quiz) IsOwnedBy(userID uint) bool {
	return q.CreatedBy == userID
}

// CheckPin сравнивает PIN точным сравнением строк.
// Для публичного квиза PIN не хранится и проверка всегда false.
func (q *Quiz) CheckPin(pin string) bool {
	return q.AccessPin != nil && pin != "" && *q.AccessPin == pin
}
