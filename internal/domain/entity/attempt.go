package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Answer — один ответ студента: id вопроса и текст выбранного варианта.
// Сопоставление идет по тексту варианта, а не по его позиции.
type Answer struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// AnswerList - пользовательский тип для работы с JSONB
type AnswerList []Answer

// Scan реализует интерфейс sql.Scanner для AnswerList
func (a *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerList{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerList
func (a AnswerList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Attempt — неизменяемая запись одной сдачи квиза.
// Score, TotalQuestions и Percentage вычисляются один раз при создании
// и не пересчитываются, даже если квиз потом отредактируют.
type Attempt struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	QuizID         uint       `gorm:"not null;index" json:"quiz_id"`
	Quiz           Quiz       `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	StudentID      uint       `gorm:"not null;index" json:"student_id"`
	Student        User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Answers        AnswerList `gorm:"type:jsonb;not null" json:"answers"`
	Score          int        `gorm:"not null;default:0" json:"score"`
	TotalQuestions int        `gorm:"not null;default:0" json:"total_questions"`
	Percentage     int        `gorm:"not null;default:0" json:"percentage"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}
