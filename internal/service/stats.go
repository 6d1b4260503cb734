package service

import (
	"math"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// AttemptStats — агрегированная статистика по попыткам одного квиза
type AttemptStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  int     `json:"highest_score"`
	LowestScore   int     `json:"lowest_score"`
}

// SummarizeAttempts считает статистику по процентным результатам попыток.
// Для пустого списка все поля нулевые. AverageScore округляется до 1 знака.
func SummarizeAttempts(attempts []entity.Attempt) AttemptStats {
	stats := AttemptStats{TotalAttempts: len(attempts)}
	if len(attempts) == 0 {
		return stats
	}

	sum := 0
	stats.HighestScore = attempts[0].Percentage
	stats.LowestScore = attempts[0].Percentage
	for _, a := range attempts {
		sum += a.Percentage
		if a.Percentage > stats.HighestScore {
			stats.HighestScore = a.Percentage
		}
		if a.Percentage < stats.LowestScore {
			stats.LowestScore = a.Percentage
		}
	}

	stats.AverageScore = math.Round(float64(sum)/float64(len(attempts))*10) / 10
	return stats
}

// TrendingScore считает скор популярности: все попытки с весом 1,
// попытки за trending-окно с весом 3
func TrendingScore(total, recent int64) int64 {
	return total + 3*recent
}

// PercentageOf переводит счёт в проценты с математическим округлением.
// При нуле вопросов возвращает 0.
func PercentageOf(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
