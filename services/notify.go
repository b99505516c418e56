package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/models"
)

// Notifier tells the site owner about a new contact submission
type Notifier interface {
	Name() string
	Notify(ctx context.Context, contact *models.Contact) error
}

// NotificationDispatcher fans a submission out to every configured notifier
type NotificationDispatcher struct {
	notifiers []Notifier
}

func NewNotificationDispatcher(notifiers ...Notifier) *NotificationDispatcher {
	return &NotificationDispatcher{notifiers: notifiers}
}

// Enabled reports whether at least one notifier is configured
func (d *NotificationDispatcher) Enabled() bool {
	return d != nil && len(d.notifiers) > 0
}

// Dispatch runs every notifier concurrently. A failing notifier does not stop
// the others; all failures are combined into the returned error.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, contact *models.Contact) error {
	if !d.Enabled() {
		return nil
	}

	var (
		mu        sync.Mutex
		failures  []string
		successes []string
		g         errgroup.Group
	)
	for _, n := range d.notifiers {
		g.Go(func() error {
			err := n.Notify(ctx, contact)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error().Err(err).Str("notifier", n.Name()).Str("id", contact.ID.String()).Msg("Failed to send contact notification")
				failures = append(failures, fmt.Sprintf("%s: %v", n.Name(), err))
				return nil
			}
			successes = append(successes, n.Name())
			return nil
		})
	}
	_ = g.Wait()

	if len(successes) > 0 {
		sort.Strings(successes)
		log.Info().Strs("notifiers", successes).Str("id", contact.ID.String()).Msg("Contact notifications sent")
	}
	if len(failures) > 0 {
		sort.Strings(failures)
		return fmt.Errorf("some notifiers failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

func contactSummary(c *models.Contact) string {
	return fmt.Sprintf("New contact from %s <%s>: %s", c.FullName, c.Email, c.Subject)
}
