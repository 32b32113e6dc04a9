package protocol

import (
	"fmt"
)

// Frame layout constants
const (
	StartMarker = 0xA5 // First byte of every V5 frame
	EndMarker   = 0x15 // Last byte of every V5 frame
	ControlByte = 0x10 // Byte [3] of device-originated frames

	HeaderSize          = 11  // Preamble read by ParseHeader
	InverterMessageSize = 148 // Header + inverter data layout, including trailing padding
	TrailerSize         = 2   // Checksum + end marker

	// ResponseTypeOffset is subtracted from a request type to get its response type
	ResponseTypeOffset = 0x30
)

// Message type constants (byte [4] of the header)
const (
	MsgTypeHandshake    = 0x41 // Logger hello, sent once after connecting
	MsgTypeInverterData = 0x42 // Inverter telemetry report
	MsgTypeLoggerInfo   = 0x43 // Logger wifi/firmware information
	MsgTypeHeartbeat    = 0x47 // Periodic keepalive
	MsgTypeReport       = 0x48 // Logger status report
)

// Header is the fixed preamble of a frame. It is a value type and never
// modified after ParseHeader returns it.
type Header struct {
	PayloadLength uint16 `json:"payload_length" yaml:"payload_length"`
	MessageType   uint8  `json:"type" yaml:"type"`
	ResponseIndex uint8  `json:"resp_idx" yaml:"resp_idx"`
	RequestIndex  uint8  `json:"req_idx" yaml:"req_idx"`
	SerialNumber  uint32 `json:"serialno" yaml:"serialno"`
}

// ParseHeader decodes the preamble at the start of buf.
// Only the length is checked; type and serial values are taken as-is.
func ParseHeader(buf []byte) (Header, error) {
	values, err := decodeLayout("parse header", headerLayout, buf)
	if err != nil {
		return Header{}, err
	}

	return Header{
		PayloadLength: uint16(values["payload_length"].(int64)),
		MessageType:   uint8(values["type"].(int64)),
		ResponseIndex: uint8(values["resp_idx"].(int64)),
		RequestIndex:  uint8(values["req_idx"].(int64)),
		SerialNumber:  uint32(values["serialno"].(int64)),
	}, nil
}

// IsTelemetry reports whether the frame carries an inverter data payload
func (h Header) IsTelemetry() bool {
	return h.MessageType == MsgTypeInverterData
}

// ResponseType returns the message type a collector answers this frame with.
// ok is false when the type is too small to have a response type.
func (h Header) ResponseType() (uint8, bool) {
	if h.MessageType < ResponseTypeOffset {
		return 0, false
	}
	return h.MessageType - ResponseTypeOffset, true
}

// String returns a human-readable representation of the header
func (h Header) String() string {
	return fmt.Sprintf("Header{type=%s, len=%d, resp_idx=%d, req_idx=%d, serial=%d}",
		MessageTypeName(h.MessageType), h.PayloadLength, h.ResponseIndex, h.RequestIndex, h.SerialNumber)
}

// TelemetryRecord is the decoded inverter data payload with units attached
type TelemetryRecord struct {
	IsCurrent            bool   `json:"is_current" yaml:"is_current"`
	Timestamp            uint32 `json:"timestamp" yaml:"timestamp"`
	InverterSerialNumber string `json:"inverter_serial_number" yaml:"inverter_serial_number"`

	InverterTemperature Quantity `json:"inverter_temperature" yaml:"inverter_temperature"`
	DCVoltagePV1        Quantity `json:"dc_voltage_pv1" yaml:"dc_voltage_pv1"`
	DCVoltagePV2        Quantity `json:"dc_voltage_pv2" yaml:"dc_voltage_pv2"`
	DCCurrentPV1        Quantity `json:"dc_current_pv1" yaml:"dc_current_pv1"`
	DCCurrentPV2        Quantity `json:"dc_current_pv2" yaml:"dc_current_pv2"`
	ACCurrent1          Quantity `json:"ac_current_1" yaml:"ac_current_1"`
	ACCurrent2          Quantity `json:"ac_current_2" yaml:"ac_current_2"`
	ACCurrent3          Quantity `json:"ac_current_3" yaml:"ac_current_3"`
	ACVoltage1          Quantity `json:"ac_voltage_1" yaml:"ac_voltage_1"`
	ACVoltage2          Quantity `json:"ac_voltage_2" yaml:"ac_voltage_2"`
	ACVoltage3          Quantity `json:"ac_voltage_3" yaml:"ac_voltage_3"`
	ACOutputFrequency   Quantity `json:"ac_output_frequency" yaml:"ac_output_frequency"`

	DailyActiveGeneration Quantity `json:"daily_active_generation" yaml:"daily_active_generation"`
	TotalActiveGeneration Quantity `json:"total_active_generation" yaml:"total_active_generation"`

	// Reserved holds every other decoded layout field by wire name
	// (int64 for numbers, string for text). Meanings are not interpreted.
	Reserved map[string]any `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

// surfaced lists the layout fields mapped onto named record fields
var surfaced = map[string]bool{
	"flags": true, "timestamp": true, "serialno": true, "temp": true,
	"pv1_v": true, "pv2_v": true, "pv1_i": true, "pv2_i": true,
	"ac1_i": true, "ac2_i": true, "ac3_i": true,
	"ac1_v": true, "ac2_v": true, "ac3_v": true,
	"ac_hz": true, "daily_wh": true, "total_wh": true,
}

// ParseInverterMessage decodes an inverter data frame. buf is the whole
// message including the header; the payload is read from offset 11.
func ParseInverterMessage(buf []byte) (TelemetryRecord, error) {
	values, err := decodeLayout("parse inverter message", inverterLayout, buf)
	if err != nil {
		return TelemetryRecord{}, err
	}

	num := func(name string) int64 { return values[name].(int64) }

	rec := TelemetryRecord{
		IsCurrent:            num("flags")&0x80 == 0,
		Timestamp:            uint32(num("timestamp")),
		InverterSerialNumber: values["serialno"].(string),

		InverterTemperature: scaled(num("temp"), 0.1, Centigrade),
		DCVoltagePV1:        scaled(num("pv1_v"), 0.1, Volt),
		DCVoltagePV2:        scaled(num("pv2_v"), 0.1, Volt),
		DCCurrentPV1:        scaled(num("pv1_i"), 0.1, Ampere),
		DCCurrentPV2:        scaled(num("pv2_i"), 0.1, Ampere),
		ACCurrent1:          scaled(num("ac1_i"), 0.1, Ampere),
		ACCurrent2:          scaled(num("ac2_i"), 0.1, Ampere),
		ACCurrent3:          scaled(num("ac3_i"), 0.1, Ampere),
		ACVoltage1:          scaled(num("ac1_v"), 0.1, Volt),
		ACVoltage2:          scaled(num("ac2_v"), 0.1, Volt),
		ACVoltage3:          scaled(num("ac3_v"), 0.1, Volt),
		ACOutputFrequency:   scaled(num("ac_hz"), 0.01, Hertz),

		DailyActiveGeneration: scaled(num("daily_wh"), 0.01, KilowattHour),
		TotalActiveGeneration: scaled(num("total_wh"), 0.1, KilowattHour),

		Reserved: make(map[string]any, len(values)-len(surfaced)),
	}

	for name, v := range values {
		if !surfaced[name] {
			rec.Reserved[name] = v
		}
	}

	return rec, nil
}

// MessageTypeName returns a human-readable name for a message type
func MessageTypeName(msgType uint8) string {
	switch msgType {
	case MsgTypeHandshake:
		return "Handshake"
	case MsgTypeInverterData:
		return "InverterData"
	case MsgTypeLoggerInfo:
		return "LoggerInfo"
	case MsgTypeHeartbeat:
		return "Heartbeat"
	case MsgTypeReport:
		return "Report"
	case MsgTypeHandshake - ResponseTypeOffset:
		return "HandshakeResponse"
	case MsgTypeInverterData - ResponseTypeOffset:
		return "InverterDataResponse"
	case MsgTypeLoggerInfo - ResponseTypeOffset:
		return "LoggerInfoResponse"
	case MsgTypeHeartbeat - ResponseTypeOffset:
		return "HeartbeatResponse"
	case MsgTypeReport - ResponseTypeOffset:
		return "ReportResponse"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", msgType)
	}
}
