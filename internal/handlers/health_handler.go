package handlers

import (
	"net/http"

	"github.com/kunjshukla/ain/internal/config"
	"github.com/kunjshukla/ain/internal/llm"
	"github.com/kunjshukla/ain/internal/reports"
	"github.com/kunjshukla/ain/internal/utils"
)

type HealthHandler struct {
	generator llm.Generator
	reports   *reports.Manager
	cfg       *config.Config
}

func NewHealthHandler(generator llm.Generator, reportManager *reports.Manager, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		generator: generator,
		reports:   reportManager,
		cfg:       cfg,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "ok",
		"provider": h.generator.GetProviderName(),
	}
	if h.reports != nil {
		if stats, err := h.reports.Stats(); err == nil {
			status["reports"] = stats
		}
	}
	utils.JSON(w, http.StatusOK, status)
}
