package httptransport

import "guidedjournal/internal/domains"

type TemplateList struct {
	Templates []domains.Template `json:"templates"`
}

type HealthStatus struct {
	Status string `json:"status"`
}
