package cli

import "context"

// Command is a subcommand handler run by the cobra root once the
// application is loaded
type Command interface {
	Execute(ctx context.Context, args []string) error
}
