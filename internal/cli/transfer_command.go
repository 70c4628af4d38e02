package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"task-manager/internal/errors"
	"task-manager/internal/storage"
)

// stdio names standard input or output in place of a path
const stdio = "-"

// TransferOptions holds the flags of import and export
type TransferOptions struct {
	Format string
	Out    string
}

func (o TransferOptions) format() (storage.Format, error) {
	switch f := storage.Format(o.Format); f {
	case "":
		return storage.FormatText, nil
	case storage.FormatText, storage.FormatBinary:
		return f, nil
	default:
		return "", invalidChoice("format", o.Format, "text, binary")
	}
}

// ExportCommand handles the export command
type ExportCommand struct {
	app          *App
	opts         TransferOptions
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App, opts TransferOptions) *ExportCommand {
	return &ExportCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute writes the whole list to --out, or stdout
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format, err := c.opts.format()
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	if c.opts.Out == "" || c.opts.Out == stdio {
		_, err := c.app.services.TaskService.Export(ctx, c.app.out, format)
		return c.errorHandler.Handle("export tasks", err)
	}

	f, err := os.Create(c.opts.Out)
	if err != nil {
		return c.errorHandler.Handle("export tasks", errors.NewIOError("create "+c.opts.Out, err))
	}
	n, err := c.app.services.TaskService.Export(ctx, f, format)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.NewIOError("close "+c.opts.Out, closeErr)
	}
	if err != nil {
		return c.errorHandler.Handle("export tasks", err)
	}

	fmt.Fprintf(c.app.out, "Exported %d tasks to %s\n", n, c.opts.Out)
	return nil
}

// ImportCommand handles the import command
type ImportCommand struct {
	app          *App
	opts         TransferOptions
	errorHandler *ErrorHandler
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App, opts TransferOptions) *ImportCommand {
	return &ImportCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute appends the tasks read from the file named by the single argument, or stdin for "-"
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "import", "usage: tm import [--format text|binary] PATH")
	}
	format, err := c.opts.format()
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	var r io.Reader = c.app.in
	if path := args[0]; path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return c.errorHandler.Handle("import tasks", errors.NewIOError("open "+path, err))
		}
		defer f.Close()
		r = f
	}

	n, err := c.app.services.TaskService.Import(ctx, r, format)
	if err != nil {
		return c.errorHandler.Handle("import tasks", err)
	}

	fmt.Fprintf(c.app.out, "Imported %d tasks\n", n)
	return nil
}
