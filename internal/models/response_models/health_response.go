package response_models

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type WebhookAck struct {
	Status string `json:"status"`
}
