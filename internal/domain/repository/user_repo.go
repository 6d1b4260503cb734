package repository

import (
	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// UpdateProfile точечно обновляет поля профиля (name, email), не трогая пароль
	UpdateProfile(userID uint, updates map[string]interface{}) error
}
