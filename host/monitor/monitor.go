// Package monitor decodes the board's report stream. It consumes lines
// from any reader, a real serial port or a simulated board's host
// port, classifies them, and turns report lines into sample records.
package monitor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"duadc/protocol"
)

// Kind classifies one line of the report stream.
type Kind int

const (
	// KindUnknown is anything the monitor does not recognize, line
	// noise or output from other firmware.
	KindUnknown Kind = iota
	// KindBanner is the greeting emitted once after board setup.
	KindBanner
	// KindSeqDump is a sequence register field dump.
	KindSeqDump
	// KindReport is a line of sample pairs.
	KindReport
)

// Sample is one decoded pair from a report line.
type Sample struct {
	Pair int // position within the line
	Low  int // first converter's reading
	High int // second converter's reading
}

// Stats counts what the monitor has seen.
type Stats struct {
	Lines    int
	Banners  int
	SeqDumps int
	Reports  int
	Unknown  int
	Samples  int
}

var (
	bannerText = strings.TrimSuffix(protocol.Banner, protocol.LineEnd)
	seqPrefixA = protocol.SeqHdrA
	seqPrefixB = strings.TrimPrefix(protocol.SeqHdrB, protocol.LineEnd)
)

// Classify reports what kind of line this is. The line must already be
// stripped of its terminator.
func Classify(line string) Kind {
	switch {
	case line == bannerText:
		return KindBanner
	case strings.HasPrefix(line, seqPrefixA), strings.HasPrefix(line, seqPrefixB):
		return KindSeqDump
	default:
		if _, err := ParseReport(line); err == nil {
			return KindReport
		}
		return KindUnknown
	}
}

// ParseReport decodes a line of "lo - hi" pairs. The formatter leaves a
// trailing space on every line; the parser tolerates it either way.
func ParseReport(line string) ([]Sample, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields)%3 != 0 {
		return nil, fmt.Errorf("report line needs lo %q hi triplets, got %d fields", protocol.PairSep, len(fields))
	}
	samples := make([]Sample, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		lo, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("bad low value %q: %w", fields[i], err)
		}
		if fields[i+1]+" " != protocol.PairSep {
			return nil, fmt.Errorf("expected separator %q, got %q", protocol.PairSep, fields[i+1])
		}
		hi, err := strconv.Atoi(fields[i+2])
		if err != nil {
			return nil, fmt.Errorf("bad high value %q: %w", fields[i+2], err)
		}
		samples = append(samples, Sample{Pair: len(samples), Low: lo, High: hi})
	}
	return samples, nil
}

// ParseSeqDump decodes a sequence register dump line into its unit name
// and channel fields.
func ParseSeqDump(line string) (unit string, channels []int, err error) {
	var rest string
	switch {
	case strings.HasPrefix(line, seqPrefixA):
		unit, rest = "ADC1", line[len(seqPrefixA):]
	case strings.HasPrefix(line, seqPrefixB):
		unit, rest = "ADC2", line[len(seqPrefixB):]
	default:
		return "", nil, fmt.Errorf("not a sequence dump line: %q", line)
	}
	for _, f := range strings.Fields(rest) {
		ch, err := strconv.Atoi(f)
		if err != nil {
			return "", nil, fmt.Errorf("bad channel field %q: %w", f, err)
		}
		channels = append(channels, ch)
	}
	return unit, channels, nil
}

// Monitor reads the stream line by line. It is not safe for concurrent
// use.
type Monitor struct {
	scanner *bufio.Scanner
	stats   Stats
}

// New returns a monitor consuming r.
func New(r io.Reader) *Monitor {
	return &Monitor{scanner: bufio.NewScanner(r)}
}

// Next returns the samples of the next report line, counting and
// skipping banners, dumps and noise on the way. It returns io.EOF when
// the stream ends.
func (m *Monitor) Next() ([]Sample, error) {
	for m.scanner.Scan() {
		line := m.scanner.Text()
		m.stats.Lines++
		switch Classify(line) {
		case KindBanner:
			m.stats.Banners++
		case KindSeqDump:
			m.stats.SeqDumps++
		case KindReport:
			samples, err := ParseReport(line)
			if err != nil {
				return nil, err
			}
			m.stats.Reports++
			m.stats.Samples += len(samples)
			return samples, nil
		default:
			m.stats.Unknown++
		}
	}
	if err := m.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report stream: %w", err)
	}
	return nil, io.EOF
}

// Stats returns the counters accumulated so far.
func (m *Monitor) Stats() Stats {
	return m.stats
}
