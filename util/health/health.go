// Package health aggregates readiness checks from the reader's dependencies
// into a single status and a JSON dependency report.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Check struct {
	Name  string
	Check func(context.Context, bool) (int, string, error)
}

// CheckAll runs all checks concurrently and merges the results. The overall
// status is 200 only when every check passed; a single failing dependency
// degrades it to 503. The message is a JSON document listing each dependency
// with its status, in the order the checks were given.
func CheckAll(ctx context.Context, checkLiveness bool, checks []Check) (int, string, error) {
	var (
		overallStatus = http.StatusOK
		messages      = make([]string, len(checks))
		statuses      = make([]int, len(checks))
	)

	g, gCtx := errgroup.WithContext(ctx)

	for i, check := range checks {
		g.Go(func() error {
			status, message, err := check.Check(gCtx, checkLiveness)
			statuses[i] = status

			var msg string

			if len(message) > 0 && message[0] == '{' && message[len(message)-1] == '}' {
				msg = fmt.Sprintf(`{"resource": "%s", "status": "%d", "error": "%v", "dependencies": [%s]}`, check.Name, status, err, message)
			} else {
				msg = fmt.Sprintf(`{"resource": "%s", "status": "%d", "error": "%v", "message": "%s"}`, check.Name, status, err, message)
			}

			messages[i] = msg

			return nil
		})
	}

	// failures are reported through statuses, the group itself never errors
	_ = g.Wait()

	for _, status := range statuses {
		if status != http.StatusOK {
			overallStatus = http.StatusServiceUnavailable
			break
		}
	}

	return overallStatus, fmt.Sprintf(`{"status":"%d", "dependencies":[%s]}`, overallStatus, strings.Join(messages, ",\n")), nil
}
