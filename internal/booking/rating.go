package booking

// RatingAggregate — производный агрегат рейтинга сущности
// (провайдера или услуги).
type RatingAggregate struct {
	Mean  float64
	Count int
}

// RecomputeRating пересчитывает средний рейтинг по полному срезу оценок.
// Полный перескан вместо инкрементального обновления: стоимость растёт
// линейно с числом отзывов, на нашем масштабе это приемлемо.
// Функция детерминирована и не зависит от порядка входа.
func RecomputeRating(ratings []int) RatingAggregate {
	if len(ratings) == 0 {
		return RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RatingAggregate{
		Mean:  float64(sum) / float64(len(ratings)),
		Count: len(ratings),
	}
}
