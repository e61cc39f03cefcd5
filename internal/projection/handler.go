package projection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/s3meta/s3meta/internal/core/errors"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/summary", s.HandleQueryAll)
	r.GET("/v1/summary/:dimension", s.HandleQuerySummary)
	r.GET("/v1/status/:table", s.HandleQueryStatus)
}

// HandleQuerySummary handles GET /v1/summary/:dimension
func (s *Service) HandleQuerySummary(c *gin.Context) {
	resp, err := s.QuerySummary(c.Request.Context(), c.Param("dimension"))
	if err != nil {
		writeQueryError(c, err, "Failed to query summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleQueryAll handles GET /v1/summary
func (s *Service) HandleQueryAll(c *gin.Context) {
	resp, err := s.QueryAll(c.Request.Context())
	if err != nil {
		writeQueryError(c, err, "Failed to query summaries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleQueryStatus handles GET /v1/status/:table
func (s *Service) HandleQueryStatus(c *gin.Context) {
	resp, err := s.QueryStatus(c.Request.Context(), c.Param("table"))
	if err != nil {
		writeQueryError(c, err, "Failed to query analyzer status")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeQueryError(c *gin.Context, err error, internalMessage string) {
	if errors.Is(err, ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid summary query",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   internalMessage,
		Details:   err.Error(),
	})
}
