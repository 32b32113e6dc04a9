package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/solis-service/solis/internal/protocol"
)

// Namer resolves a logger serial number to a display name.
// *config.Registry satisfies it.
type Namer interface {
	DisplayName(serial uint32) string
}

type serialNamer struct{}

func (serialNamer) DisplayName(serial uint32) string {
	return strconv.FormatUint(uint64(serial), 10)
}

func nameOf(names Namer, serial uint32) string {
	if names == nil {
		names = serialNamer{}
	}
	name := names.DisplayName(serial)
	if id := strconv.FormatUint(uint64(serial), 10); name != id {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return name
}

// HeaderDetails lists the header fields in wire order
func HeaderDetails(h protocol.Header) []Detail {
	return []Detail{
		{"Payload length", fmt.Sprintf("%d bytes", h.PayloadLength)},
		{"Message type", fmt.Sprintf("0x%02X %s", h.MessageType, protocol.MessageTypeName(h.MessageType))},
		{"Response index", strconv.Itoa(int(h.ResponseIndex))},
		{"Request index", strconv.Itoa(int(h.RequestIndex))},
		{"Logger serial", strconv.FormatUint(uint64(h.SerialNumber), 10)},
	}
}

// TelemetryDetails lists the named telemetry quantities
func TelemetryDetails(r *protocol.TelemetryRecord) []Detail {
	return []Detail{
		{"Inverter serial", strconv.Quote(r.InverterSerialNumber)},
		{"Current", strconv.FormatBool(r.IsCurrent)},
		{"Timestamp", strconv.FormatUint(uint64(r.Timestamp), 10)},
		{"Inverter temperature", r.InverterTemperature.String()},
		{"DC voltage PV1", r.DCVoltagePV1.String()},
		{"DC voltage PV2", r.DCVoltagePV2.String()},
		{"DC current PV1", r.DCCurrentPV1.String()},
		{"DC current PV2", r.DCCurrentPV2.String()},
		{"AC current 1", r.ACCurrent1.String()},
		{"AC current 2", r.ACCurrent2.String()},
		{"AC current 3", r.ACCurrent3.String()},
		{"AC voltage 1", r.ACVoltage1.String()},
		{"AC voltage 2", r.ACVoltage2.String()},
		{"AC voltage 3", r.ACVoltage3.String()},
		{"AC output frequency", r.ACOutputFrequency.String()},
		{"Daily active generation", r.DailyActiveGeneration.String()},
		{"Total active generation", r.TotalActiveGeneration.String()},
	}
}

// ReservedDetails lists the uninterpreted telemetry fields sorted by name
func ReservedDetails(r *protocol.TelemetryRecord) []Detail {
	keys := make([]string, 0, len(r.Reserved))
	for k := range r.Reserved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	details := make([]Detail, 0, len(keys))
	for _, k := range keys {
		v := r.Reserved[k]
		if s, ok := v.(string); ok {
			v = strconv.Quote(s)
		}
		details = append(details, Detail{Key: k, Value: fmt.Sprint(v)})
	}
	return details
}

// RenderMessage renders a decoded message as a banner followed by a result box.
// Historical telemetry records get a warning box.
func RenderMessage(msg *protocol.Message, names Namer, width int) string {
	h := msg.Header
	banner := NewBanner(protocol.MessageTypeName(h.MessageType), "Logger "+nameOf(names, h.SerialNumber), HeaderDetails(h)...).
		SetWidth(width)

	if msg.Telemetry == nil {
		return banner.Render()
	}

	rec := msg.Telemetry
	var result *Result
	if rec.IsCurrent {
		result = NewSuccessResult("Inverter data", TelemetryDetails(rec)...)
	} else {
		result = NewWarningResult("Historical inverter data", TelemetryDetails(rec)...)
	}
	result.SetWidth(width).AddSection("Reserved", ReservedDetails(rec))

	return banner.Render() + "\n" + result.Render()
}

// RenderHeader renders a parsed header on its own
func RenderHeader(h protocol.Header, names Namer, width int) string {
	return NewBanner("Header", "Logger "+nameOf(names, h.SerialNumber), HeaderDetails(h)...).
		SetWidth(width).
		Render()
}

// RenderResponse renders a built response frame
func RenderResponse(resp []byte, width int) string {
	r := NewSuccessResult("Mock response").SetWidth(width)
	if h, err := protocol.ParseHeader(resp); err == nil {
		r.AddDetail("Response type", fmt.Sprintf("0x%02X %s", h.MessageType, protocol.MessageTypeName(h.MessageType)))
		r.AddDetail("Index", strconv.Itoa(int(h.RequestIndex)))
	}
	r.AddDetail("Length", fmt.Sprintf("%d bytes", len(resp)))
	r.AddDetail("Frame", HexStyle.Render(fmt.Sprintf("% X", resp)))
	return r.Render()
}

// FormatCompact renders a decoded message on one unstyled line
func FormatCompact(msg *protocol.Message, names Namer) string {
	h := msg.Header
	var b strings.Builder
	fmt.Fprintf(&b, "%s logger=%s req=%d resp=%d len=%d",
		protocol.MessageTypeName(h.MessageType), nameOf(names, h.SerialNumber),
		h.RequestIndex, h.ResponseIndex, h.PayloadLength)

	if r := msg.Telemetry; r != nil {
		state := "current"
		if !r.IsCurrent {
			state = "historical"
		}
		fmt.Fprintf(&b, " inverter=%q %s ts=%d temp=%q pv1=%q/%q pv2=%q/%q ac=%q/%q/%q freq=%q daily=%q total=%q",
			r.InverterSerialNumber, state, r.Timestamp, r.InverterTemperature,
			r.DCVoltagePV1, r.DCCurrentPV1, r.DCVoltagePV2, r.DCCurrentPV2,
			r.ACVoltage1, r.ACVoltage2, r.ACVoltage3,
			r.ACOutputFrequency, r.DailyActiveGeneration, r.TotalActiveGeneration)
	}
	return b.String()
}
