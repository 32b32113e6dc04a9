package capture

import (
	"context"
	"time"

	"github.com/solis-service/solis/internal/logging"
	"github.com/solis-service/solis/internal/protocol"
	"go.uber.org/zap"
)

// Result is the outcome of replaying one entry
type Result struct {
	Entry    Entry
	Message  *protocol.Message // nil when Err is set
	Response []byte            // Mock response, inbound frames only
	Err      error
}

// Stats summarises a replay
type Stats struct {
	Total        int
	Decoded      int
	Failed       int
	Responses    int
	MessageTypes map[uint8]int
}

// Toucher records that a logger was seen. *config.Registry satisfies it.
type Toucher interface {
	Touch(serial uint32, remoteAddr string, at time.Time)
}

// ReplayConfig controls Replay
type ReplayConfig struct {
	// Response options passed to MockServerResponse, e.g. a fixed timestamp
	ResponseOptions []protocol.ResponseOption

	// Tracker, when set, is told about every decoded inbound frame
	Tracker Toucher

	// Now stamps entries that carry no capture time. Defaults to time.Now.
	Now func() time.Time
}

// Replay decodes every entry and builds the mock response for each inbound
// frame. A frame that fails to decode is recorded in its Result and does not
// stop the replay. Replay returns early with ctx.Err() when ctx is cancelled.
func Replay(ctx context.Context, entries []Entry, cfg ReplayConfig) ([]Result, Stats, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	stats := Stats{MessageTypes: make(map[uint8]int)}
	results := make([]Result, 0, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}

		res := replayOne(entry, cfg)
		stats.Total++
		if res.Err != nil {
			stats.Failed++
			logging.LogDecodeError(entry.Source, entry.Line, entry.Raw, res.Err)
		} else {
			stats.Decoded++
			stats.MessageTypes[res.Message.Header.MessageType]++
		}
		if res.Response != nil {
			stats.Responses++
		}
		results = append(results, res)
	}

	logging.Info("Replay complete",
		zap.Int("total", stats.Total),
		zap.Int("decoded", stats.Decoded),
		zap.Int("failed", stats.Failed),
		zap.Int("responses", stats.Responses),
	)

	return results, stats, nil
}

func replayOne(entry Entry, cfg ReplayConfig) Result {
	res := Result{Entry: entry}

	msg, err := protocol.Decode(entry.Raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.Message = msg

	h := msg.Header
	logging.LogFrame(entry.RemoteAddr, entry.Direction, protocol.MessageTypeName(h.MessageType), h.SerialNumber, entry.Raw)

	if entry.Direction != logging.DirectionInbound {
		return res
	}

	if cfg.Tracker != nil {
		at := entry.Timestamp
		if at.IsZero() {
			at = cfg.Now()
		}
		cfg.Tracker.Touch(h.SerialNumber, entry.RemoteAddr, at)
	}

	resp, err := msg.Respond(cfg.ResponseOptions...)
	if err != nil {
		// Frames with no response type are still reported as decoded
		logging.Debug("No response built", zap.Uint8("message_type", h.MessageType), zap.Error(err))
		return res
	}
	res.Response = resp

	logging.LogFrame(entry.RemoteAddr, logging.DirectionOutbound, protocol.MessageTypeName(resp[4]), h.SerialNumber, resp)
	return res
}
