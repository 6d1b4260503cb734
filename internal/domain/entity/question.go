package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Option — вариант ответа на вопрос. Ровно один вариант внутри вопроса
// помечен correct=true, это ключ ответа.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// OptionList - пользовательский тип для работы с JSONB
type OptionList []Option

// Scan реализует интерфейс sql.Scanner для OptionList
// Используется GORM для чтения JSONB данных из базы
func (o *OptionList) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = OptionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionList
// Используется GORM для записи OptionList в JSONB в базе
func (o OptionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос квиза. Вопрос не существует отдельно
// от своего квиза; Position фиксирует авторский порядок.
type Question struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	QuizID   uint       `gorm:"not null;index" json:"quiz_id"`
	Position int        `gorm:"not null;default:0" json:"position"`
	Text     string     `gorm:"type:text;not null" json:"text"`
	Options  OptionList `gorm:"type:jsonb;not null" json:"options"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// CorrectOption возвращает единственный правильный вариант ответа.
// Второе значение false, если ключ ответа отсутствует (невалидный вопрос).
func (q *Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt, true
		}
	}
	return Option{}, false
}

// CorrectCount возвращает количество вариантов, помеченных как правильные
func (q *Question) CorrectCount() int {
	count := 0
	for _, opt := range q.Options {
		if opt.Correct {
			count++
		}
	}
	return count
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
