package capture

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/solis-service/solis/internal/logging"
	"go.uber.org/zap"
)

// Entry is one frame read from a capture file
type Entry struct {
	Source     string    // File the entry came from
	Line       int       // 1-based line number within Source
	Raw        []byte    // Frame bytes
	RemoteAddr string    // Peer address, empty for plain hex lines
	Direction  string    // logging.DirectionInbound or logging.DirectionOutbound
	Timestamp  time.Time // Capture time, zero when unknown
}

// record is the JSONL capture format written by packet capture tooling
type record struct {
	Timestamp  string `json:"timestamp"`
	RemoteAddr string `json:"remote_addr"`
	Direction  string `json:"direction"`
	PayloadHex string `json:"payload_hex"`
}

// hexNoise is stripped from plain hex lines before decoding
var hexNoise = strings.NewReplacer(" ", "", "\t", "", "|", "", "_", "", ":", "")

// ParseHex decodes a hex string, ignoring spaces, tabs, '|', '_' and ':'
func ParseHex(s string) ([]byte, error) {
	clean := hexNoise.Replace(strings.TrimSpace(s))
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// Read parses every frame in r. Blank lines and lines starting with '#' are
// skipped. Lines starting with '{' are JSONL records, anything else is hex.
func Read(r io.Reader, source string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNum, err)
		}
		entry.Source = source
		entry.Line = lineNum
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	logging.Debug("Capture read", zap.String("source", source), zap.Int("entries", len(entries)))
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	if !strings.HasPrefix(line, "{") {
		raw, err := ParseHex(line)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Raw: raw, Direction: logging.DirectionInbound}, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return Entry{}, fmt.Errorf("invalid capture record: %w", err)
	}

	raw, err := ParseHex(rec.PayloadHex)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Raw:        raw,
		RemoteAddr: rec.RemoteAddr,
		Direction:  normalizeDirection(rec.Direction),
	}
	if rec.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid timestamp %q: %w", rec.Timestamp, err)
		}
		entry.Timestamp = ts
	}
	return entry, nil
}

func normalizeDirection(d string) string {
	switch strings.ToLower(d) {
	case "", "in", "inbound", "received", "rx":
		return logging.DirectionInbound
	default:
		return logging.DirectionOutbound
	}
}

// ReadPath reads a capture file, or every *.jsonl and *.hex file in a
// directory in name order.
func ReadPath(path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files = nil
		for _, pattern := range []string{"*.jsonl", "*.hex"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, fmt.Errorf("error finding capture files: %w", err)
			}
			files = append(files, matches...)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no capture files found in %s", path)
		}
		sort.Strings(files)
	}

	var entries []Entry
	for _, file := range files {
		fileEntries, err := readFile(file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}

func readFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening capture: %w", err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}
