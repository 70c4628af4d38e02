package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/services"
)

// Output formats of the list command.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatText  = "text"
)

// styles groups the lipgloss styles used by table and calendar output.
// With color disabled every style renders text unchanged.
type styles struct {
	header   lipgloss.Style
	date     lipgloss.Style
	time     lipgloss.Style
	title    lipgloss.Style
	inactive lipgloss.Style
	banner   lipgloss.Style
	border   lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		date:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		time:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		title:    lipgloss.NewStyle(),
		inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		banner:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		border:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// taskRecord is the machine-readable shape of a task in csv, json and yaml output
type taskRecord struct {
	Index           int    `json:"index" yaml:"index"`
	Title           string `json:"title" yaml:"title"`
	Active          bool   `json:"active" yaml:"active"`
	Kind            string `json:"kind" yaml:"kind"`
	At              string `json:"at,omitempty" yaml:"at,omitempty"`
	Start           string `json:"start,omitempty" yaml:"start,omitempty"`
	End             string `json:"end,omitempty" yaml:"end,omitempty"`
	IntervalSeconds uint32 `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty"`
	Interval        string `json:"interval,omitempty" yaml:"interval,omitempty"`
	Next            string `json:"next,omitempty" yaml:"next,omitempty"`
}

func newTaskRecord(v *services.TaskView) taskRecord {
	task := v.Task
	s := task.Schedule()
	rec := taskRecord{
		Index:  v.Index,
		Title:  task.Title(),
		Active: task.IsActive(),
		Kind:   s.Kind.String(),
	}
	if s.IsRecurring() {
		rec.Start = codec.FormatTimestamp(s.Start)
		rec.End = codec.FormatTimestamp(s.End)
		rec.IntervalSeconds = s.IntervalSeconds
		rec.Interval = codec.FormatInterval(s.IntervalSeconds)
	} else {
		rec.At = codec.FormatTimestamp(s.At)
	}
	if v.Next != nil {
		rec.Next = codec.FormatTimestamp(*v.Next)
	}
	return rec
}

// writeTasks renders views in one of the list formats
func writeTasks(w io.Writer, format string, views []*services.TaskView, timeService services.TimeService, st styles) error {
	switch format {
	case FormatTable:
		return writeTable(w, views, timeService, st)
	case FormatCSV:
		return writeCSV(w, views)
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	case FormatText:
		tasks := make([]*domain.Task, 0, len(views))
		for _, v := range views {
			tasks = append(tasks, v.Task)
		}
		if err := codec.WriteText(w, slices.Values(tasks)); err != nil {
			return err
		}
		if len(tasks) > 0 {
			_, err := fmt.Fprintln(w)
			return err
		}
		return nil
	default:
		return errors.NewInvalidInputError("format", format, "must be one of table, csv, json, yaml, text")
	}
}

// invalidChoice reports a flag value outside its allowed set
func invalidChoice(field, value, choices string) error {
	return errors.NewInvalidInputError(field, value, "must be one of "+choices)
}

// describeSchedule renders a schedule for humans
func describeSchedule(s domain.Schedule, timeService services.TimeService) string {
	if !s.IsRecurring() {
		return "at " + timeService.FormatInstant(s.At)
	}
	return fmt.Sprintf("%s → %s every %s",
		timeService.FormatInstant(s.Start),
		timeService.FormatInstant(s.End),
		codec.FormatInterval(s.IntervalSeconds))
}

func writeTable(w io.Writer, views []*services.TaskView, timeService services.TimeService, st styles) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.border).
		Headers("#", "TITLE", "SCHEDULE", "ACTIVE", "NEXT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row < 0 || row >= len(views) {
				return st.header
			}
			if !views[row].Task.IsActive() {
				return st.inactive
			}
			return st.title
		})

	for _, v := range views {
		active := "no"
		if v.Task.IsActive() {
			active = "yes"
		}
		next := "-"
		if v.Next != nil {
			next = timeService.FormatInstant(*v.Next)
		}
		t.Row(strconv.Itoa(v.Index), v.Task.Title(), describeSchedule(v.Task.Schedule(), timeService), active, next)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeCSV(w io.Writer, views []*services.TaskView) error {
	writer := csv.NewWriter(w)

	header := []string{"Index", "Title", "Active", "Kind", "At", "Start", "End", "Interval (seconds)", "Next"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range views {
		rec := newTaskRecord(v)
		interval := ""
		if rec.IntervalSeconds > 0 {
			interval = strconv.FormatUint(uint64(rec.IntervalSeconds), 10)
		}
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Title,
			strconv.FormatBool(rec.Active),
			rec.Kind,
			rec.At,
			rec.Start,
			rec.End,
			interval,
			rec.Next,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func records(views []*services.TaskView) []taskRecord {
	out := make([]taskRecord, 0, len(views))
	for _, v := range views {
		out = append(out, newTaskRecord(v))
	}
	return out
}

func writeJSON(w io.Writer, views []*services.TaskView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records(views))
}

func writeYAML(w io.Writer, views []*services.TaskView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(views)); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}
