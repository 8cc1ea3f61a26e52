package geo

import "math"

// earthRadiusMeters - средний радиус Земли
const earthRadiusMeters = 6371000.0

// Distance вычисляет расстояние по дуге большого круга между двумя точками
// в метрах по формуле гаверсинусов. Функция симметрична и возвращает ноль
// для совпадающих точек. Координаты должны быть заданы - проверка на
// отсутствие лежит на вызывающей стороне.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	deltaPhi := toRadians(lat2 - lat1)
	deltaLambda := toRadians(lon2 - lon1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
