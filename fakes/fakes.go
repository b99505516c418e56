// Package fakes provides in-memory repositories with the ordering, paging and
// uniqueness behaviour of the Postgres repositories, for service and handler tests.
package fakes

import (
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
)

// clock hands out strictly increasing timestamps so newest-first ordering is stable
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) next() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func page[T any](items []*T, pageNum, pageSize int) []*T {
	start, end := database.Window(len(items), pageNum, pageSize)
	return items[start:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
