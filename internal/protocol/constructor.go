package protocol

import (
	"encoding/binary"
	"time"
)

// Mock response constants
const (
	// ResponsePayloadSize is the fixed payload length of a mock acknowledgement
	ResponsePayloadSize = 10

	// ResponseFrameSize is header + payload + checksum + end marker
	ResponseFrameSize = HeaderSize + ResponsePayloadSize + TrailerSize

	responseMarker = 0x01
)

// responseTrailer is copied verbatim into every acknowledgement payload.
// Its meaning is unknown; loggers accept responses carrying it.
var responseTrailer = [4]byte{0xAA, 0xAA, 0x00, 0x00}

type responseOptions struct {
	timestamp *uint32
	clock     func() time.Time
}

// ResponseOption customises MockServerResponse
type ResponseOption func(*responseOptions)

// WithTimestamp fixes the unix timestamp written into the response payload
func WithTimestamp(unix uint32) ResponseOption {
	return func(o *responseOptions) {
		o.timestamp = &unix
	}
}

// WithClock replaces the wall clock used when no timestamp is given
func WithClock(clock func() time.Time) ResponseOption {
	return func(o *responseOptions) {
		o.clock = clock
	}
}

// MockServerResponse builds the acknowledgement a collector would send for
// the frame described by h.
//
// Frame Structure:
//
//	[0]      0xA5           Start marker
//	[1-2]    10             Payload length (LE u16)
//	[3]      0x00           Control byte
//	[4]      type - 0x30    Response type
//	[5]      req_idx        Request index of the inbound frame
//	[6]      req_idx        Request index again (response index slot)
//	[7-10]   serialno       Logger serial (LE u32)
//	[11]     echo           First byte of the request payload
//	[12]     0x01
//	[13-16]  timestamp      Unix seconds (LE u32)
//	[17-20]  AA AA 00 00
//	[21]     checksum       ChecksumByte(frame[1:21])
//	[22]     0x15           End marker
//
// The request index fills both index slots. Captured collector replies do the
// same, so it is kept even though the response index looks like a candidate.
func MockServerResponse(h Header, requestPayload []byte, opts ...ResponseOption) ([]byte, error) {
	if len(requestPayload) == 0 {
		return nil, &ArgumentError{Arg: "requestPayload", Reason: "empty, need at least one byte to echo"}
	}

	respType, ok := h.ResponseType()
	if !ok {
		return nil, &ArgumentError{Arg: "header.MessageType", Reason: "below 0x30, no response type"}
	}

	o := responseOptions{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	var unixTime uint32
	if o.timestamp != nil {
		unixTime = *o.timestamp
	} else {
		unixTime = uint32(o.clock().UTC().Unix())
	}

	payload := make([]byte, ResponsePayloadSize)
	payload[0] = requestPayload[0]
	payload[1] = responseMarker
	binary.LittleEndian.PutUint32(payload[2:6], unixTime)
	copy(payload[6:], responseTrailer[:])

	resp := Header{
		MessageType:   respType,
		ResponseIndex: h.RequestIndex,
		RequestIndex:  h.RequestIndex,
		SerialNumber:  h.SerialNumber,
	}
	return BuildFrame(resp, 0x00, payload), nil
}
