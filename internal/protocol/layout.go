package protocol

import (
	"encoding/binary"
	"strings"
)

// FieldKind is the wire encoding of a single layout field
type FieldKind int

const (
	KindU8 FieldKind = iota
	KindU16
	KindI16
	KindU32
	KindString
)

// Field describes one fixed-offset field. Offsets are absolute within the message.
type Field struct {
	Name   string
	Offset int
	Width  int
	Kind   FieldKind
}

// Layout is an ordered table of fields plus the total span the message must cover.
// Bytes not named by a field (reserved, padding) are never surfaced.
type Layout struct {
	Name   string
	Fields []Field
	Size   int
}

func u8(name string, off int) Field  { return Field{Name: name, Offset: off, Width: 1, Kind: KindU8} }
func u16(name string, off int) Field { return Field{Name: name, Offset: off, Width: 2, Kind: KindU16} }
func i16(name string, off int) Field { return Field{Name: name, Offset: off, Width: 2, Kind: KindI16} }
func u32(name string, off int) Field { return Field{Name: name, Offset: off, Width: 4, Kind: KindU32} }

func str(name string, off, width int) Field {
	return Field{Name: name, Offset: off, Width: width, Kind: KindString}
}

// headerLayout is the preamble present at offset 0 of every frame.
//
//	[0]     reserved (0xA5 start marker on the wire)
//	[1-2]   payload length (LE u16)
//	[3]     reserved (control code low byte)
//	[4]     message type
//	[5]     response index
//	[6]     request index
//	[7-10]  serial number (LE u32)
var headerLayout = Layout{
	Name: "header",
	Fields: []Field{
		u16("payload_length", 1),
		u8("type", 4),
		u8("resp_idx", 5),
		u8("req_idx", 6),
		u32("serialno", 7),
	},
	Size: HeaderSize,
}

// inverterLayout is the inverter data payload (message type 0x42).
// Offsets were derived from captured frames and must stay bit-exact.
var inverterLayout = Layout{
	Name: "inverter data",
	Fields: []Field{
		u8("flags", 11),
		// 12-13 reserved
		u32("timestamp", 14),
		// 18-31 reserved
		str("serialno", 32, 16),
		i16("temp", 48),
		u16("pv1_v", 50),
		u16("pv2_v", 52),
		u16("pv1_i", 54),
		u16("pv2_i", 56),
		u16("ac1_i", 58),
		u16("ac2_i", 60),
		u16("ac3_i", 62),
		u16("ac1_v", 64),
		u16("ac2_v", 66),
		u16("ac3_v", 68),
		u16("ac_hz", 70),
		u32("ac_pwr", 72),
		u32("daily_wh", 76),
		u32("total_wh", 80),
		u32("runtime", 84),
		u16("status", 88),
		str("swver", 90, 4),
		str("hwver", 94, 4),
		u16("modtemp", 98),
		u16("bus_v", 100),
		u16("cpu_v", 102),
		// 104-105 reserved
		u16("countdown", 106),
		u16("inputmode", 108),
		u16("pv1_r", 110),
		u16("pv2_r", 112),
		u16("imp", 114),
		u16("ctry", 116),
		u16("ind1_i", 118),
		u16("ct_w", 120),
		u16("leakage_i", 122),
		u16("a_dist", 124),
		u16("b_dist", 126),
		u16("c_dist", 128),
		str("vdspver", 130, 4),
		str("dspver", 134, 4),
		u8("yy", 138),
		u8("mm", 139),
		u8("dd", 140),
		u8("h", 141),
		u8("m", 142),
		u8("s", 143),
		// 144-147 padding
	},
	Size: InverterMessageSize,
}

// fieldReader reads typed little-endian values out of a buffer that has
// already been checked against a layout's Size.
type fieldReader struct {
	buf []byte
}

func (r fieldReader) readUint(f Field) uint64 {
	b := r.buf[f.Offset : f.Offset+f.Width]
	switch f.Kind {
	case KindU8:
		return uint64(b[0])
	case KindU16, KindI16:
		return uint64(binary.LittleEndian.Uint16(b))
	case KindU32:
		return uint64(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (r fieldReader) readInt(f Field) int64 {
	if f.Kind == KindI16 {
		return int64(int16(binary.LittleEndian.Uint16(r.buf[f.Offset : f.Offset+2])))
	}
	return int64(r.readUint(f))
}

// readString returns a fixed-width text field with trailing whitespace removed.
// Leading whitespace is significant and kept.
func (r fieldReader) readString(f Field) string {
	return strings.TrimRight(string(r.buf[f.Offset:f.Offset+f.Width]), " \t\r\n\v\f")
}

// decodeLayout checks the buffer length and returns every field keyed by name.
// Numeric fields are int64 (sign-extended for KindI16), strings are trimmed.
func decodeLayout(op string, l Layout, buf []byte) (map[string]any, error) {
	if len(buf) < l.Size {
		return nil, shortBuffer(op, l.Size, len(buf))
	}

	r := fieldReader{buf: buf}
	values := make(map[string]any, len(l.Fields))
	for _, f := range l.Fields {
		if f.Kind == KindString {
			values[f.Name] = r.readString(f)
			continue
		}
		values[f.Name] = r.readInt(f)
	}
	return values, nil
}
