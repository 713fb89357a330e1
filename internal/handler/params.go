package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/scholarhub/scholarhub-api/pkg/errors"
)

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func dateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Param(name)
	if raw == "" {
		raw = c.Query(name)
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, name+" must be formatted YYYY-MM-DD")
	}
	return date, nil
}
