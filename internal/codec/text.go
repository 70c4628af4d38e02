// Package codec reads and writes task lists in the line-oriented text format
// and the fixed-width binary format.
//
// A text file holds one task per line:
//
//	"Task title" at [2014-06-28 18:00:13.000];
//	"Very ""Good"" title" at [2013-05-10 20:31:20.001] inactive;
//	"Other task" from [2010-06-01 08:00:00.000] to [2010-09-01 00:00:00.000] every [1 day].
package codec

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

const (
	keywordAt     = " at "
	keywordFrom   = " from "
	keywordTo     = " to "
	keywordEvery  = " every "
	markInactive  = " inactive"
	lineSeparator = ";\n"
	fileEnd       = "."

	maxLineLength = 1 << 20
)

// Sink receives decoded tasks in stream order.
type Sink interface {
	Add(task *domain.Task) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(task *domain.Task) error

// Add calls f(task).
func (f SinkFunc) Add(task *domain.Task) error {
	return f(task)
}

// EncodeLine renders a task as a single line without its terminator.
func EncodeLine(task *domain.Task) string {
	var b strings.Builder
	b.WriteString(quote(task.Title()))

	s := task.Schedule()
	if s.IsRecurring() {
		b.WriteString(keywordFrom)
		writeField(&b, FormatTimestamp(s.Start))
		b.WriteString(keywordTo)
		writeField(&b, FormatTimestamp(s.End))
		b.WriteString(keywordEvery)
		writeField(&b, FormatInterval(s.IntervalSeconds))
	} else {
		b.WriteString(keywordAt)
		writeField(&b, FormatTimestamp(s.At))
	}

	if !task.IsActive() {
		b.WriteString(markInactive)
	}
	return b.String()
}

func writeField(b *strings.Builder, text string) {
	b.WriteByte('[')
	b.WriteString(text)
	b.WriteByte(']')
}

// Encoder writes tasks in the text format.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes every task, separating lines with ";\n" and ending the last
// one with ".". An empty sequence writes nothing.
func (e *Encoder) Encode(tasks iter.Seq[*domain.Task]) error {
	first := true
	for task := range tasks {
		if !first {
			if _, err := e.w.WriteString(lineSeparator); err != nil {
				return errors.NewIOError("write tasks", err)
			}
		}
		if _, err := e.w.WriteString(EncodeLine(task)); err != nil {
			return errors.NewIOError("write tasks", err)
		}
		first = false
	}
	if !first {
		if _, err := e.w.WriteString(fileEnd); err != nil {
			return errors.NewIOError("write tasks", err)
		}
	}
	if err := e.w.Flush(); err != nil {
		return errors.NewIOError("write tasks", err)
	}
	return nil
}

// WriteText encodes tasks to w.
func WriteText(w io.Writer, tasks iter.Seq[*domain.Task]) error {
	return NewEncoder(w).Encode(tasks)
}

// Decoder reads tasks in the text format one line at a time.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &Decoder{scanner: scanner}
}

// Next decodes the next non-blank line. It returns io.EOF once the input is exhausted.
func (d *Decoder) Next() (*domain.Task, error) {
	for d.scanner.Scan() {
		d.line++
		line := strings.TrimSuffix(d.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return decodeLine(line, d.line)
	}
	if err := d.scanner.Err(); err != nil {
		return nil, errors.NewIOError("read tasks", err)
	}
	return nil, io.EOF
}

// Decode adds every task of the stream to sink in order. The first malformed
// line aborts decoding; tasks after it are never added.
func (d *Decoder) Decode(sink Sink) error {
	for {
		task, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sink.Add(task); err != nil {
			return err
		}
	}
}

// ReadText decodes every task from r into sink.
func ReadText(r io.Reader, sink Sink) error {
	return NewDecoder(r).Decode(sink)
}

// DecodeLine parses a single task line, with or without its terminator.
func DecodeLine(line string) (*domain.Task, error) {
	return decodeLine(line, 1)
}

func decodeLine(line string, lineNumber int) (*domain.Task, error) {
	fail := func(offset int, reason string, cause error) error {
		return errors.NewParseError(line, lineNumber, offset, reason, cause)
	}

	tokens, err := lex(line)
	if err != nil {
		le := err.(*lexError)
		return nil, fail(le.offset, le.reason, nil)
	}

	title := tokens[0].text
	keyword := tokens[1]
	trailer := tokens[len(tokens)-1]

	var schedule domain.Schedule
	switch keyword.text {
	case keywordAt:
		if len(tokens) != 4 {
			return nil, fail(keyword.offset, "one-shot task takes exactly one bracketed field", nil)
		}
		at, err := ParseTimestamp(tokens[2].text)
		if err != nil {
			return nil, fail(tokens[2].offset, errors.GetUserMessage(err), err)
		}
		schedule = domain.OneShot(at)

	case keywordFrom:
		if len(tokens) != 8 {
			return nil, fail(keyword.offset, "recurring task takes exactly three bracketed fields", nil)
		}
		if tokens[3].text != keywordTo {
			return nil, fail(tokens[3].offset, fmt.Sprintf("expected %q", keywordTo), nil)
		}
		if tokens[5].text != keywordEvery {
			return nil, fail(tokens[5].offset, fmt.Sprintf("expected %q", keywordEvery), nil)
		}
		start, err := ParseTimestamp(tokens[2].text)
		if err != nil {
			return nil, fail(tokens[2].offset, errors.GetUserMessage(err), err)
		}
		end, err := ParseTimestamp(tokens[4].text)
		if err != nil {
			return nil, fail(tokens[4].offset, errors.GetUserMessage(err), err)
		}
		interval, err := ParseInterval(tokens[6].text)
		if err != nil {
			return nil, fail(tokens[6].offset, errors.GetUserMessage(err), err)
		}
		schedule = domain.Recurring(start, end, interval)

	default:
		return nil, fail(keyword.offset, fmt.Sprintf("unknown schedule keyword %q", keyword.text), nil)
	}

	active, ok := parseTrailer(trailer.text)
	if !ok {
		return nil, fail(trailer.offset, fmt.Sprintf("unexpected trailing text %q", trailer.text), nil)
	}

	task, err := domain.NewTask(title, schedule)
	if err != nil {
		return nil, fail(0, errors.GetUserMessage(err), err)
	}
	task.SetActive(active)
	return task, nil
}

// parseTrailer interprets the text after the last field: an optional
// inactive marker followed by an optional ";" or "." terminator.
func parseTrailer(text string) (active bool, ok bool) {
	text = strings.TrimRight(text, " \t")
	if strings.HasSuffix(text, ";") || strings.HasSuffix(text, fileEnd) {
		text = text[:len(text)-1]
	}
	switch text {
	case "":
		return true, true
	case markInactive:
		return false, true
	default:
		return false, false
	}
}
