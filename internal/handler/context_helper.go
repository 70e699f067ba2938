package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/models"
)

func datasetFilterFromQuery(c *gin.Context) models.DatasetFilter {
	return models.DatasetFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "pageSize"),
	}
}

// queryInt reads a positive integer query value; anything else reads as 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
