package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

const bannerWidth = 33

// WriterNotifier prints a banner listing the due tasks.
type WriterNotifier struct {
	W io.Writer
}

// Notify writes the banner for one instant.
func (n WriterNotifier) Notify(_ context.Context, at time.Time, tasks []*domain.Task) error {
	var b strings.Builder
	title := fmt.Sprintf(" NOTIFICATION %s ", domain.FormatInstant(at))
	pad := max(bannerWidth-len(title), 0)
	fmt.Fprintf(&b, "\n%s%s%s\n", strings.Repeat("=", pad/2), title, strings.Repeat("=", pad-pad/2))
	for _, task := range tasks {
		fmt.Fprintln(&b, task)
	}
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", max(bannerWidth, len(title))))

	if _, err := io.WriteString(n.W, b.String()); err != nil {
		return errors.NewIOError("write notification", err)
	}
	return nil
}
