package protocol

import "fmt"

// Message is an inbound frame decoded as far as its type allows
type Message struct {
	Header    Header           `json:"header" yaml:"header"`
	Telemetry *TelemetryRecord `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	Payload   []byte           `json:"-" yaml:"-"` // Bytes after the header, including any trailer
}

// Decode parses the header of buf and, for inverter data frames, the
// telemetry payload. Other message types carry only the header.
func Decode(buf []byte) (*Message, error) {
	header, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Header:  header,
		Payload: buf[HeaderSize:],
	}

	if header.IsTelemetry() {
		rec, err := ParseInverterMessage(buf)
		if err != nil {
			return nil, err
		}
		msg.Telemetry = &rec
	}

	return msg, nil
}

// Respond builds the mock acknowledgement for a decoded message
func (m *Message) Respond(opts ...ResponseOption) ([]byte, error) {
	return MockServerResponse(m.Header, m.Payload, opts...)
}

// String returns a human-readable representation of the message
func (m *Message) String() string {
	if m.Telemetry == nil {
		return m.Header.String()
	}
	return fmt.Sprintf("%s %s", m.Header, m.Telemetry)
}

// String returns a one-line summary of the record
func (r TelemetryRecord) String() string {
	return fmt.Sprintf("Telemetry{serial=%q, current=%v, ts=%d, temp=%s, pv1=%s/%s, ac1=%s/%s, freq=%s, daily=%s, total=%s}",
		r.InverterSerialNumber, r.IsCurrent, r.Timestamp, r.InverterTemperature,
		r.DCVoltagePV1, r.DCCurrentPV1, r.ACVoltage1, r.ACCurrent1,
		r.ACOutputFrequency, r.DailyActiveGeneration, r.TotalActiveGeneration)
}
