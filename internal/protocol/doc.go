// Package protocol implements the Solis (Solarman V5) data logger binary protocol.
//
// This package decodes the frames a Solis inverter data logger sends to its
// cloud collector and builds the acknowledgement frames a collector sends
// back. It performs no I/O: callers hand it byte buffers and get structured
// values or byte buffers in return.
//
// # Protocol Overview
//
// Every frame starts with an 11-byte little-endian preamble:
//   - Start marker: 0xA5
//   - Payload length: 2 bytes
//   - Control byte: 0x10 from loggers, 0x00 from collectors
//   - Message type, response index, request index: 1 byte each
//   - Logger serial number: 4 bytes
//
// The payload follows, then a checksum byte (8-bit sum of every byte after
// the start marker) and the end marker 0x15.
//
// # Message Types
//
//   - 0x41 Handshake: sent once after the logger connects
//   - 0x42 InverterData: periodic telemetry from the inverter
//   - 0x43 LoggerInfo: logger firmware and network details
//   - 0x47 Heartbeat: keepalive
//   - 0x48 Report: logger status report
//
// A collector answers each frame with type-0x30 (0x42 is answered with 0x12).
//
// # Inverter Data Layout
//
// The telemetry payload is decoded through an explicit offset table
// (inverterLayout) covering bytes 11-147 of the message. Named quantities are
// tagged with a physical unit and a decimal scale; the remaining fields are
// exposed raw in TelemetryRecord.Reserved.
//
// # Usage Example - Parsing
//
//	msg, err := protocol.Decode(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if msg.Telemetry != nil {
//	    fmt.Println(msg.Telemetry.ACVoltage1) // "230.1 V"
//	}
//
// # Usage Example - Mock Response
//
//	resp, err := protocol.MockServerResponse(msg.Header, msg.Payload,
//	    protocol.WithTimestamp(1700000000))
//
// # Error Handling
//
// The package returns two error kinds:
//   - *FormatError: the buffer is too short or does not match the layout
//   - *ArgumentError: a builder was given unusable input
//
// Decoders never return partial results.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. The unit registry
// is populated at package initialisation and only read afterwards.
package protocol
