package handlers

import (
	"errors"
	"net/http"

	"github.com/epeers/markowitz/internal/markowitz"
	"github.com/epeers/markowitz/internal/models"
	"github.com/epeers/markowitz/internal/repository"
	"github.com/epeers/markowitz/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// writeError maps a service error to its HTTP status and error code.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, markowitz.ErrInvalidInput):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrSecurityNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrSecurityExists):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, markowitz.ErrInfeasible):
		status, code = http.StatusUnprocessableEntity, "infeasible"
	case errors.Is(err, markowitz.ErrSolverFailed):
		status, code = http.StatusInternalServerError, "solver_error"
	case errors.Is(err, services.ErrRateUnavailable), errors.Is(err, services.ErrMarketData):
		status, code = http.StatusBadGateway, "upstream_error"
	}
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: msg,
	})
}
