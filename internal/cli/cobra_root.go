package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"task-manager/internal/config"
	"task-manager/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	config  *config.Config
	factory AppFactory
	app     *App
}

// NewRootCommand creates the root cobra command with global flags. The
// application is built by factory after flags have been applied to cfg.
func NewRootCommand(cfg *config.Config, factory AppFactory) *RootCommand {
	if factory == nil {
		factory = NewAppFromConfig
	}
	root := &RootCommand{
		config:  cfg,
		factory: factory,
	}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A command-line manager for scheduled tasks",
		Long: `Task Manager (tm) keeps a list of one-shot and recurring tasks and tells you when they are due.

FEATURES:
  • One-shot tasks at a fixed time, recurring tasks from a start to an end at a fixed interval
  • Calendar and incoming views over any time window
  • Live notifications while "tm watch" runs
  • Tasks stored as readable text, compact binary or SQLite
  • Fully configurable via a config file, environment variables and command-line flags

EXAMPLES:
  tm add "Call mom" --at "2024-03-05 18:00" --active
  tm add "Standup" --from 2024-03-04 --to 2024-03-29 --every "1 day" --active
  tm list --active-only --sort next
  tm edit 2 --every 2h
  tm remove 1 3
  tm calendar --for 7d
  tm incoming --for 1d
  tm export --format binary --out tasks.bin
  tm watch

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file (~/.tm/config.yaml or TM_CONFIG) > defaults

  Storage Configuration:
    TM_FILE                                Task file or database path (default: ~/.tm/tasks.txt)
    TM_STORAGE_FORMAT                      text, binary or sqlite (default: text)

  Display Configuration:
    TM_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04:05.000)
    TM_DISPLAY_CALENDAR_WINDOW             Default calendar window (default: 168h)
    TM_DISPLAY_INCOMING_WINDOW             Default incoming window (default: 24h)
    TM_DISPLAY_LIST_FORMAT                 Default list format (default: table)
    TM_DISPLAY_NO_COLOR                    Disable colors (default: false)

  Application Configuration:
    TM_NOTIFY_INTERVAL                     Notification poll interval (default: 1s)
    TM_APP_TIMEOUT                         Application timeout (default: 60s)
    TM_APP_VERBOSE                         Enable verbose output (default: false)
    TM_LOG_LEVEL                           debug, info, warn or error (default: info)
    TM_DEBUG                               Force debug logging

TIME FORMATS:
  Times:      2024-03-05 18:00:00.000, 2024-03-05 18:00 or 2024-03-05
  Intervals:  "1 day 2 hours", "30 minutes" or Go durations like 90m
  Windows:    30m, 2h, 7d, 1w, 1mo, 1y

GETTING HELP:
  tm [command] --help                      # Get help for any specific command
  tm completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.PreRun(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases the application afterwards
func (r *RootCommand) Execute() error {
	defer r.closeApp()
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with ctx as the parent of every command context
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.closeApp()
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) closeApp() {
	if r.app == nil {
		return
	}
	if err := r.app.Close(); err != nil {
		logging.Debugf("closing application: %v", err)
	}
	r.app = nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Storage configuration
	flags.String("file", "", "Task file or database path (overrides TM_FILE)")
	flags.String("storage-format", "", "Storage format: text, binary or sqlite (overrides TM_STORAGE_FORMAT)")

	// Display configuration
	flags.String("time-format", "", "Time display format (overrides TM_TIME_DISPLAY_FORMAT)")
	flags.Bool("no-color", false, "Disable colored output (overrides TM_DISPLAY_NO_COLOR)")

	// Application configuration
	flags.Duration("notify-interval", 0, "Notification poll interval (overrides TM_NOTIFY_INTERVAL)")
	flags.Duration("app-timeout", 0, "Application timeout (overrides TM_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable verbose output (overrides TM_APP_VERBOSE)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides TM_LOG_LEVEL)")
}

// commandContext derives the context a command runs with, bounded by the application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// run executes a handler built once the application exists
func (r *RootCommand) run(cmd *cobra.Command, args []string, build func(app *App) Command) error {
	ctx, cancel := r.commandContext(cmd)
	defer cancel()
	return build(r.app).Execute(ctx, args)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Add command
	var addOpts AddOptions
	addCmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a one-shot or recurring task",
		Long: `Add a task. A one-shot task needs --at, a recurring task needs --from, --to and --every.
New tasks are inactive unless --active is given.

Examples:
  tm add "Dentist" --at "2024-03-05 14:30" --active
  tm add Standup --from 2024-03-04 --to 2024-03-29 --every "1 day"
  tm add Stretch --from "2024-03-04 09:00" --to "2024-03-04 17:00" --every 45m`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewAddCommand(app, addOpts) })
		},
	}
	addScheduleFlags(addCmd, &addOpts.ScheduleOptions)
	addCmd.Flags().BoolVar(&addOpts.Active, "active", false, "Activate the task")

	// List command
	var listOpts ListOptions
	listCmd := &cobra.Command{
		Use:   "list [text]",
		Short: "List tasks",
		Long: `List tasks with optional filtering.

Text filters search within titles (case-insensitive partial matching).

Examples:
  tm list                          # All tasks as a table
  tm list standup                  # Tasks whose title contains "standup"
  tm list --active-only --sort next
  tm list --format json > tasks.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewListCommand(app, listOpts) })
		},
	}
	listCmd.Flags().StringVarP(&listOpts.Format, "format", "f", "", "Output format: table, csv, json, yaml, text")
	listCmd.Flags().BoolVar(&listOpts.ActiveOnly, "active-only", false, "Only list active tasks")
	listCmd.Flags().StringVarP(&listOpts.Search, "search", "s", "", "Only list tasks whose title contains TEXT")
	listCmd.Flags().StringVar(&listOpts.Kind, "kind", "", "Only list one-shot or recurring tasks")
	listCmd.Flags().StringVar(&listOpts.Sort, "sort", "", "Sort by position, next or title")

	// Edit command
	var editOpts EditOptions
	editCmd := &cobra.Command{
		Use:   "edit INDEX",
		Short: "Change a task",
		Long: `Change the title, schedule or active flag of the task numbered INDEX in "tm list".
Changing the schedule deactivates the task unless --active is given.

Examples:
  tm edit 2 --title "Call dad"
  tm edit 2 --every 2h --active=true
  tm edit 3 --at "2024-04-01 10:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := editOpts
			flags := cmd.Flags()
			if flags.Changed("title") {
				title, _ := flags.GetString("title")
				opts.Title = &title
			}
			if flags.Changed("active") {
				active, _ := flags.GetBool("active")
				opts.Active = &active
			}
			return r.run(cmd, args, func(app *App) Command { return NewEditCommand(app, opts) })
		},
	}
	addScheduleFlags(editCmd, &editOpts.ScheduleOptions)
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().Bool("active", false, "Activate (true) or deactivate (false) the task")

	// Remove command
	removeCmd := &cobra.Command{
		Use:     "remove INDEX...",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove tasks",
		Long: `Remove the tasks numbered in "tm list".
Either every number is valid and all are removed, or nothing is removed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewRemoveCommand(app) })
		},
	}

	// Calendar command
	var calendarOpts WindowOptions
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show every occurrence in a time window, grouped by day",
		Long: `Show every occurrence of the active tasks after --from (default now) up to --to,
or for the --for window (default from TM_DISPLAY_CALENDAR_WINDOW).

Examples:
  tm calendar
  tm calendar --for 1mo
  tm calendar --from 2024-01-01 --to 2024-01-08`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewCalendarCommand(app, calendarOpts) })
		},
	}
	addWindowFlags(calendarCmd, &calendarOpts)

	// Incoming command
	var incomingOpts WindowOptions
	incomingCmd := &cobra.Command{
		Use:   "incoming",
		Short: "List the tasks due in a time window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewIncomingCommand(app, incomingOpts) })
		},
	}
	addWindowFlags(incomingCmd, &incomingOpts)

	// Summary command
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show task counts and the next due task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewSummaryCommand(app) })
		},
	}

	// Export command
	var exportOpts TransferOptions
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list in text or binary format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewExportCommand(app, exportOpts) })
		},
	}
	exportCmd.Flags().StringVarP(&exportOpts.Format, "format", "f", "text", "Format: text or binary")
	exportCmd.Flags().StringVarP(&exportOpts.Out, "out", "o", stdio, `Output file, "-" for stdout`)

	// Import command
	var importOpts TransferOptions
	importCmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Append the tasks of a text or binary file",
		Long: `Append the tasks of PATH ("-" for stdin) to the list.
A malformed file adds nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(app *App) Command { return NewImportCommand(app, importOpts) })
		},
	}
	importCmd.Flags().StringVarP(&importOpts.Format, "format", "f", "text", "Format: text or binary")

	// Watch command
	var watchOpts WatchOptions
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a notification whenever a task is due",
		Long: `Poll the task list and print a notification for every occurrence as it comes due.
Runs until interrupted; the application timeout does not apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return NewWatchCommand(r.app, watchOpts).Execute(ctx, args)
		},
	}
	watchCmd.Flags().DurationVar(&watchOpts.Reload, "reload", 0, "Re-read the store at this period (0 disables)")

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		editCmd,
		removeCmd,
		calendarCmd,
		incomingCmd,
		summaryCmd,
		exportCmd,
		importCmd,
		watchCmd,
	)
}

func addScheduleFlags(cmd *cobra.Command, opts *ScheduleOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.At, "at", "", "Time of a one-shot task")
	flags.StringVar(&opts.From, "from", "", "First time of a recurring task")
	flags.StringVar(&opts.To, "to", "", "Last possible time of a recurring task")
	flags.StringVar(&opts.Every, "every", "", `Interval of a recurring task, like "1 day" or 90m`)
	cmd.MarkFlagsMutuallyExclusive("at", "from")
	cmd.MarkFlagsMutuallyExclusive("at", "every")
}

func addWindowFlags(cmd *cobra.Command, opts *WindowOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.From, "from", "", "Window start (default now)")
	flags.StringVar(&opts.To, "to", "", "Window end")
	flags.StringVar(&opts.For, "for", "", "Window length like 1d, 7d, 1mo")
	cmd.MarkFlagsMutuallyExclusive("to", "for")
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second // Default timeout
}

// getConfigOverrides collects the global flags that were set on the command line
func (r *RootCommand) getConfigOverrides(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("file") {
		v, _ := flags.GetString("file")
		overrides.File = &v
	}
	if flags.Changed("storage-format") {
		v, _ := flags.GetString("storage-format")
		overrides.Format = &v
	}
	if flags.Changed("time-format") {
		v, _ := flags.GetString("time-format")
		overrides.TimeFormat = &v
	}
	if flags.Changed("no-color") {
		v, _ := flags.GetBool("no-color")
		overrides.NoColor = &v
	}
	if flags.Changed("notify-interval") {
		v, _ := flags.GetDuration("notify-interval")
		overrides.NotifyInterval = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	return overrides
}

// PreRun applies flag overrides to the configuration, then builds the
// application and loads the stored task list
func (r *RootCommand) PreRun(cmd *cobra.Command) error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}
	if !needsApp(cmd) {
		return nil
	}

	cfg, err := config.ApplyOverrides(r.config, r.getConfigOverrides(cmd))
	if err != nil {
		return err
	}
	r.config = cfg

	app, err := r.factory(cfg)
	if err != nil {
		return err
	}
	r.app = app

	ctx, cancel := r.commandContext(cmd)
	defer cancel()
	if err := app.Load(ctx); err != nil {
		return NewErrorHandler().Handle("load tasks from "+cfg.GetStoragePath(), err)
	}
	return nil
}

// needsApp reports whether cmd works on the task list. Help and shell
// completion run without opening the store.
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	if parent := cmd.Parent(); parent != nil && parent.Name() == "completion" {
		return false
	}
	return true
}
