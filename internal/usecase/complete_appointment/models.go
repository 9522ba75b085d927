package complete_appointment

// Request данные для завершения записи
type Request struct {
	AppointmentID int64
}

// Response результат завершения записи
type Response struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	PointsEarned int64  `json:"pointsEarned"`
}
