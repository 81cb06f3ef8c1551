package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/pipeline"
	"github.com/wonny/tradex/pkg/logger"
)

// PipelineHandler exposes cycle execution and inspection.
type PipelineHandler struct {
	orch *pipeline.Orchestrator
	log  *logger.Logger
}

// NewPipelineHandler creates a pipeline handler.
func NewPipelineHandler(orch *pipeline.Orchestrator, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{orch: orch, log: log}
}

// RunCycle triggers one synchronous pipeline cycle.
// POST /api/pipeline/cycle
func (h *PipelineHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	result, err := h.orch.RunCycle(r.Context())
	if err != nil {
		if errors.Is(err, contracts.ErrDuplicateWindowDecision) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":  err.Error(),
				"result": result,
			})
			return
		}

		h.log.WithError(err).Error("cycle failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
