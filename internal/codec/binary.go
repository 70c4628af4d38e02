package codec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"time"
	"unicode/utf16"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Binary layout, big-endian:
//
//	int32 count
//	per task:
//	  int32  title length in UTF-16 code units
//	  uint16 title code units
//	  int32  active (0 or 1)
//	  int32  interval seconds, 0 for one-shot tasks
//	  int64  instant ms            (one-shot)
//	  int64  start ms, int64 end ms (recurring)
var byteOrder = binary.BigEndian

// WriteBinary encodes tasks to w in the binary format.
func WriteBinary(w io.Writer, tasks iter.Seq[*domain.Task]) error {
	all := slices.Collect(tasks)
	bw := bufio.NewWriter(w)

	put := func(v any) error {
		if err := binary.Write(bw, byteOrder, v); err != nil {
			return errors.NewIOError("write binary tasks", err)
		}
		return nil
	}

	if err := put(int32(len(all))); err != nil {
		return err
	}
	for _, task := range all {
		if task.Interval() > math.MaxInt32 {
			return errors.NewInvalidInputError("interval", task.Interval(), "too long for the binary format")
		}
		title := utf16.Encode([]rune(task.Title()))
		active := int32(0)
		if task.IsActive() {
			active = 1
		}

		s := task.Schedule()
		record := []any{int32(len(title)), title, active, int32(task.Interval())}
		if s.IsRecurring() {
			record = append(record, s.Start.UnixMilli(), s.End.UnixMilli())
		} else {
			record = append(record, s.At.UnixMilli())
		}
		for _, v := range record {
			if err := put(v); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.NewIOError("write binary tasks", err)
	}
	return nil
}

// ReadBinary decodes tasks from r into sink. The leading count is not
// trusted; records are read until the stream ends. A stream that ends inside
// a record is an i/o error.
func ReadBinary(r io.Reader, sink Sink) error {
	br := bufio.NewReader(r)

	var count int32
	if err := binary.Read(br, byteOrder, &count); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.NewIOError("read binary header", err)
	}

	for record := 1; ; record++ {
		task, err := readRecord(br, record)
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

func readRecord(r io.Reader, record int) (*domain.Task, error) {
	var titleLen int32
	if err := binary.Read(r, byteOrder, &titleLen); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.NewIOError("read binary record", err)
	}
	if titleLen < 0 || titleLen > maxLineLength {
		return nil, invalidRecord(record, fmt.Sprintf("title length %d out of range", titleLen), nil)
	}

	get := func(v any) error {
		if err := binary.Read(r, byteOrder, v); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return errors.NewIOError("read binary record", err)
		}
		return nil
	}

	units := make([]uint16, titleLen)
	var active, interval int32
	for _, v := range []any{units, &active, &interval} {
		if err := get(v); err != nil {
			return nil, err
		}
	}
	if interval < 0 {
		return nil, invalidRecord(record, fmt.Sprintf("negative interval %d", interval), nil)
	}

	title := string(utf16.Decode(units))
	var schedule domain.Schedule
	if interval == 0 {
		var at int64
		if err := get(&at); err != nil {
			return nil, err
		}
		schedule = domain.OneShot(fromMillis(at))
	} else {
		var start, end int64
		if err := get(&start); err != nil {
			return nil, err
		}
		if err := get(&end); err != nil {
			return nil, err
		}
		schedule = domain.Recurring(fromMillis(start), fromMillis(end), uint32(interval))
	}

	task, err := domain.NewTask(title, schedule)
	if err != nil {
		return nil, invalidRecord(record, errors.GetUserMessage(err), err)
	}
	task.SetActive(active != 0)
	return task, nil
}

func invalidRecord(record int, reason string, cause error) error {
	return errors.NewParseError(fmt.Sprintf("record %d", record), record, -1, reason, cause)
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
