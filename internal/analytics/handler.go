package analytics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	httperr "github.com/meridian-lab/project-meridian/internal/core/errors"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidQuery     = "Invalid query parameters"
	msgCallerRequired   = "caller_id is required"
	msgDatesRequired    = "start_date and end_date are required (YYYY-MM-DD)"
	msgPartialDateRange = "start_date and end_date must be supplied together"
	msgZeroThreshold    = "threshold must be a non-zero decimal"
	msgQueryFailed      = "Failed to compute analytics result"
	msgOneSelector      = "exactly one of caller_id, recipient or date is required"
)

// RegisterRoutes registers the analytics query routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/analytics")
	g.GET("/average-duration", s.AverageDurationHandler)
	g.GET("/call-volume", s.CallVolumeHandler)
	g.GET("/cost-calls", s.CostCallsHandler)
	g.GET("/total-cost", s.TotalCostHandler)
	g.GET("/total-calls", s.TotalCallsHandler)
	g.GET("/summary", s.SummaryHandler)

	r.GET("/v1/records", s.ListRecordsHandler)
}

type selectorQuery struct {
	CallerID  string    `form:"caller_id"`
	StartDate time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02"`
}

type dateRangeQuery struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02" binding:"required"`
}

// AverageDurationHandler serves GET /v1/analytics/average-duration.
// caller_id takes priority over the date range; with neither selector the
// result is 0.
func (s *Service) AverageDurationHandler(c *gin.Context) {
	var q selectorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgInvalidQuery, err.Error())
		return
	}

	scope := UnboundedScope()
	switch {
	case q.CallerID != "":
		scope = CallerScope(q.CallerID)
	case !q.StartDate.IsZero() && !q.EndDate.IsZero():
		scope = DateRangeScope(q.StartDate, q.EndDate)
	case !q.StartDate.IsZero() || !q.EndDate.IsZero():
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgPartialDateRange, nil)
		return
	}

	avg, err := s.AverageCallDuration(c.Request.Context(), scope)
	if err != nil {
		writeInternal(c, "average call duration", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"average_duration": avg})
}

// CallVolumeHandler serves GET /v1/analytics/call-volume.
func (s *Service) CallVolumeHandler(c *gin.Context) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgDatesRequired, err.Error())
		return
	}

	volume, err := s.CallVolume(c.Request.Context(), q.StartDate, q.EndDate)
	if err != nil {
		writeInternal(c, "call volume", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"call_volume": volume})
}

// CostCallsHandler serves GET /v1/analytics/cost-calls.
// A zero threshold is rejected before reaching the engine.
func (s *Service) CostCallsHandler(c *gin.Context) {
	var q struct {
		Threshold string `form:"threshold" binding:"required"`
		Higher    bool   `form:"higher"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgZeroThreshold, err.Error())
		return
	}

	threshold, err := decimal.NewFromString(q.Threshold)
	if err != nil || threshold.IsZero() {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgZeroThreshold, nil)
		return
	}

	records, err := s.CostCalls(c.Request.Context(), threshold, q.Higher)
	if err != nil {
		writeInternal(c, "cost calls", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// TotalCostHandler serves GET /v1/analytics/total-cost.
func (s *Service) TotalCostHandler(c *gin.Context) {
	callerID := c.Query("caller_id")
	if callerID == "" {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgCallerRequired, nil)
		return
	}

	total, err := s.TotalCallCost(c.Request.Context(), callerID)
	if err != nil {
		writeInternal(c, "total call cost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"caller_id":  callerID,
		"total_cost": total,
	})
}

// TotalCallsHandler serves GET /v1/analytics/total-calls.
// The date window is optional but must be supplied as a pair.
func (s *Service) TotalCallsHandler(c *gin.Context) {
	var q selectorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgInvalidQuery, err.Error())
		return
	}

	if q.CallerID == "" {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgCallerRequired, nil)
		return
	}

	var window *DateWindow
	switch {
	case !q.StartDate.IsZero() && !q.EndDate.IsZero():
		window = NewDateWindow(q.StartDate, q.EndDate)
	case !q.StartDate.IsZero() || !q.EndDate.IsZero():
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgPartialDateRange, nil)
		return
	}

	count, err := s.TotalCalls(c.Request.Context(), q.CallerID, window)
	if err != nil {
		writeInternal(c, "total calls", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"caller_id":   q.CallerID,
		"total_calls": count,
	})
}

// SummaryHandler serves GET /v1/analytics/summary.
// An empty window yields 204 No Content rather than a zeroed summary.
func (s *Service) SummaryHandler(c *gin.Context) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgDatesRequired, err.Error())
		return
	}

	summary, err := s.SummaryByDateRange(c.Request.Context(), q.StartDate, q.EndDate)
	if err != nil {
		writeInternal(c, "summary", err)
		return
	}

	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListRecordsHandler serves GET /v1/records, a point-lookup listing over
// exactly one selector: caller_id, recipient, or date.
func (s *Service) ListRecordsHandler(c *gin.Context) {
	var q struct {
		CallerID  string    `form:"caller_id"`
		Recipient string    `form:"recipient"`
		Date      time.Time `form:"date" time_format:"2006-01-02"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgInvalidQuery, err.Error())
		return
	}

	selectors := 0
	for _, set := range []bool{q.CallerID != "", q.Recipient != "", !q.Date.IsZero()} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		writeError(c, http.StatusBadRequest, httperr.HttpInvalidQueryError, msgOneSelector, nil)
		return
	}

	var (
		records []*v1.CallDetailRecord
		err     error
	)
	switch {
	case q.CallerID != "":
		records, err = s.store.GetByCaller(c.Request.Context(), q.CallerID)
	case q.Recipient != "":
		records, err = s.store.GetByRecipient(c.Request.Context(), q.Recipient)
	default:
		records, err = s.store.GetByDate(c.Request.Context(), q.Date)
	}
	if err != nil {
		writeInternal(c, "list records", err)
		return
	}

	if records == nil {
		records = []*v1.CallDetailRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

func writeInternal(c *gin.Context, op string, err error) {
	slog.Error("Analytics query failed", "operation", op, "error", err)
	writeError(c, http.StatusInternalServerError, httperr.HttpInternalError, msgQueryFailed, nil)
}

func writeError(c *gin.Context, statusCode int, errorType, message string, details interface{}) {
	c.JSON(statusCode, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	})
}
