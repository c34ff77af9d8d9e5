package api

// DetailsResponse - метаданные сервера (GET /details)
type DetailsResponse struct {
	Version string `json:"version"`
	Demo    bool   `json:"demo"`
}

// HealthResponse - ответ GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
