package utils

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type QueryOptions struct {
	Page   int
	Limit  int
	Status string
	Brand  string
	Search string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		Status: strings.TrimSpace(q.Get("status")),
		Brand:  strings.TrimSpace(q.Get("brand")),
		Search: strings.TrimSpace(q.Get("search")),
	}
}

func ParseFloat(s string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return val
}

func ParseInt(s string) int {
	val, _ := strconv.Atoi(strings.TrimSpace(s))
	return val
}

func ParseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
