package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frame is a complete V5 frame with its envelope checked
type Frame struct {
	Header   Header
	Payload  []byte // Bytes between the header and the checksum
	Checksum byte
	Raw      []byte // Original frame bytes for debugging
}

// ParseFrame validates the V5 envelope around a frame: start marker,
// declared payload length, checksum and end marker.
func ParseFrame(data []byte) (*Frame, error) {
	const op = "parse frame"

	if len(data) < HeaderSize+TrailerSize {
		return nil, shortBuffer(op, HeaderSize+TrailerSize, len(data))
	}

	if data[0] != StartMarker {
		return nil, &FormatError{Op: op, Err: fmt.Errorf("invalid start marker: 0x%02x (expected 0x%02x)", data[0], StartMarker)}
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	need := HeaderSize + int(header.PayloadLength) + TrailerSize
	if len(data) != need {
		return nil, &FormatError{
			Op:   op,
			Need: need,
			Have: len(data),
			Err:  fmt.Errorf("declared payload length %d does not match frame", header.PayloadLength),
		}
	}

	if end := data[len(data)-1]; end != EndMarker {
		return nil, &FormatError{Op: op, Err: fmt.Errorf("invalid end marker: 0x%02x (expected 0x%02x)", end, EndMarker)}
	}

	if err := VerifyChecksum(data); err != nil {
		return nil, err
	}

	return &Frame{
		Header:   header,
		Payload:  data[HeaderSize : len(data)-TrailerSize],
		Checksum: data[len(data)-TrailerSize],
		Raw:      data,
	}, nil
}

// String returns a debug representation of the frame
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{%s, payload=%d bytes, checksum=0x%02x}",
		f.Header, len(f.Payload), f.Checksum)
}

// AppendBinary appends the 11-byte preamble for h to b. The start marker and
// control byte fill the two reserved slots.
func (h Header) AppendBinary(b []byte, control byte) []byte {
	b = append(b, StartMarker)
	b = binary.LittleEndian.AppendUint16(b, h.PayloadLength)
	b = append(b, control, h.MessageType, h.ResponseIndex, h.RequestIndex)
	return binary.LittleEndian.AppendUint32(b, h.SerialNumber)
}

// BuildFrame wraps payload in a V5 envelope. PayloadLength is taken from
// the payload, not from h.
func BuildFrame(h Header, control byte, payload []byte) []byte {
	h.PayloadLength = uint16(len(payload))

	frame := make([]byte, 0, HeaderSize+len(payload)+TrailerSize)
	frame = h.AppendBinary(frame, control)
	frame = append(frame, payload...)
	return append(frame, ChecksumByte(frame[1:]), EndMarker)
}
