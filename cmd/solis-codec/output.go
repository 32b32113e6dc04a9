package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/solis-service/solis/internal/capture"
	"github.com/solis-service/solis/internal/config"
	"github.com/solis-service/solis/internal/protocol"
	"gopkg.in/yaml.v3"
)

type responseDTO struct {
	Request     protocol.Header `json:"request" yaml:"request"`
	ResponseHex string          `json:"response_hex" yaml:"response_hex"`
}

type checksumDTO struct {
	Length   int   `json:"length" yaml:"length"`
	Checksum uint8 `json:"checksum" yaml:"checksum"`
}

type replayResultDTO struct {
	Source      string            `json:"source" yaml:"source"`
	Line        int               `json:"line" yaml:"line"`
	Direction   string            `json:"direction" yaml:"direction"`
	RemoteAddr  string            `json:"remote_addr,omitempty" yaml:"remote_addr,omitempty"`
	Message     *protocol.Message `json:"message,omitempty" yaml:"message,omitempty"`
	ResponseHex string            `json:"response_hex,omitempty" yaml:"response_hex,omitempty"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReplayResultDTO(r capture.Result) replayResultDTO {
	dto := replayResultDTO{
		Source:     r.Entry.Source,
		Line:       r.Entry.Line,
		Direction:  r.Entry.Direction,
		RemoteAddr: r.Entry.RemoteAddr,
		Message:    r.Message,
	}
	if r.Response != nil {
		dto.ResponseHex = hexString(r.Response)
	}
	if r.Err != nil {
		dto.Error = r.Err.Error()
	}
	return dto
}

type statsDTO struct {
	Total        int            `json:"total" yaml:"total"`
	Decoded      int            `json:"decoded" yaml:"decoded"`
	Failed       int            `json:"failed" yaml:"failed"`
	Responses    int            `json:"responses" yaml:"responses"`
	MessageTypes map[string]int `json:"message_types" yaml:"message_types"`
}

func newStatsDTO(s capture.Stats) statsDTO {
	dto := statsDTO{
		Total:        s.Total,
		Decoded:      s.Decoded,
		Failed:       s.Failed,
		Responses:    s.Responses,
		MessageTypes: make(map[string]int, len(s.MessageTypes)),
	}
	for t, n := range s.MessageTypes {
		dto.MessageTypes[protocol.MessageTypeName(t)] = n
	}
	return dto
}

type replayDTO struct {
	Results []replayResultDTO `json:"results" yaml:"results"`
	Stats   statsDTO          `json:"stats" yaml:"stats"`
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

func parseSerial(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid logger serial %q: %w", s, err)
	}
	return uint32(v), nil
}

func checkTimestamp(ts int64) error {
	if ts < 0 || ts > 0xFFFFFFFF {
		return fmt.Errorf("--timestamp %d does not fit in 32 bits", ts)
	}
	return nil
}

// writeStructured writes v as indented JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}
