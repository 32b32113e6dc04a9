package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inverterFrame builds a 148-byte inverter data message with the given raw
// values written at their layout offsets. Strings are space padded, unset
// fields stay zero.
func inverterFrame(t *testing.T, raw map[string]any) []byte {
	t.Helper()

	buf := make([]byte, InverterMessageSize)
	h := Header{PayloadLength: InverterMessageSize - HeaderSize, MessageType: MsgTypeInverterData, SerialNumber: 1700000001}
	copy(buf, h.AppendBinary(nil, ControlByte))

	for _, f := range inverterLayout.Fields {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}
		dst := buf[f.Offset : f.Offset+f.Width]
		switch f.Kind {
		case KindU8:
			dst[0] = byte(v.(int))
		case KindU16:
			binary.LittleEndian.PutUint16(dst, uint16(v.(int)))
		case KindI16:
			binary.LittleEndian.PutUint16(dst, uint16(int16(v.(int))))
		case KindU32:
			binary.LittleEndian.PutUint32(dst, uint32(v.(int)))
		case KindString:
			for i := range dst {
				dst[i] = ' '
			}
			copy(dst, v.(string))
		}
	}
	return buf
}

func TestParseHeader(t *testing.T) {
	buf := []byte{0xA5, 0x97, 0x00, 0x10, 0x42, 0x05, 0x07, 0x78, 0x56, 0x34, 0x12}

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0097), h.PayloadLength)
	assert.Equal(t, uint8(0x42), h.MessageType)
	assert.Equal(t, uint8(5), h.ResponseIndex)
	assert.Equal(t, uint8(7), h.RequestIndex)
	assert.Equal(t, uint32(0x12345678), h.SerialNumber)
	assert.True(t, h.IsTelemetry())
}

func TestParseHeader_ReservedBytesIgnored(t *testing.T) {
	a := []byte{0x00, 0x01, 0x02, 0x00, 0x47, 0x01, 0x02, 0x01, 0x00, 0x00, 0x00}
	b := []byte{0xFF, 0x01, 0x02, 0xFF, 0x47, 0x01, 0x02, 0x01, 0x00, 0x00, 0x00}

	ha, err := ParseHeader(a)
	require.NoError(t, err)
	hb, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Equal(t, uint16(0x0201), ha.PayloadLength)
}

func TestParseHeader_TooShort(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := ParseHeader(make([]byte, n))
		require.Error(t, err, "len=%d", n)

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, HeaderSize, fe.Need)
		assert.Equal(t, n, fe.Have)
		assert.ErrorIs(t, err, ErrShortBuffer)
	}
}

func TestParseHeader_ExtraBytes(t *testing.T) {
	buf := inverterFrame(t, nil)
	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(1700000001), h.SerialNumber)
	assert.Equal(t, uint16(137), h.PayloadLength)
}

func TestParseInverterMessage(t *testing.T) {
	buf := inverterFrame(t, map[string]any{
		"flags":     0x01,
		"timestamp": 1700000000,
		"serialno":  "  1031A12345  ",
		"temp":      -52,
		"pv1_v":     1234,
		"pv2_v":     2871,
		"pv1_i":     45,
		"pv2_i":     12,
		"ac1_i":     31,
		"ac2_i":     32,
		"ac3_i":     33,
		"ac1_v":     2301,
		"ac2_v":     2302,
		"ac3_v":     2303,
		"ac_hz":     5001,
		"ac_pwr":    1520,
		"daily_wh":  1234,
		"total_wh":  98765,
		"swver":     "V1.2",
		"yy":        23,
		"s":         59,
	})

	rec, err := ParseInverterMessage(buf)
	require.NoError(t, err)

	assert.True(t, rec.IsCurrent)
	assert.Equal(t, uint32(1700000000), rec.Timestamp)
	assert.Equal(t, "  1031A12345", rec.InverterSerialNumber)

	tests := []struct {
		name  string
		q     Quantity
		value float64
		unit  Unit
	}{
		{"temperature", rec.InverterTemperature, -5.2, Centigrade},
		{"pv1 voltage", rec.DCVoltagePV1, 123.4, Volt},
		{"pv2 voltage", rec.DCVoltagePV2, 287.1, Volt},
		{"pv1 current", rec.DCCurrentPV1, 4.5, Ampere},
		{"pv2 current", rec.DCCurrentPV2, 1.2, Ampere},
		{"ac1 current", rec.ACCurrent1, 3.1, Ampere},
		{"ac2 current", rec.ACCurrent2, 3.2, Ampere},
		{"ac3 current", rec.ACCurrent3, 3.3, Ampere},
		{"ac1 voltage", rec.ACVoltage1, 230.1, Volt},
		{"ac2 voltage", rec.ACVoltage2, 230.2, Volt},
		{"ac3 voltage", rec.ACVoltage3, 230.3, Volt},
		{"frequency", rec.ACOutputFrequency, 50.01, Hertz},
		{"daily generation", rec.DailyActiveGeneration, 12.34, KilowattHour},
		{"total generation", rec.TotalActiveGeneration, 9876.5, KilowattHour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.value, tt.q.Value(), 1e-9)
			assert.Equal(t, tt.unit, tt.q.Unit)
		})
	}

	assert.Equal(t, int64(1520), rec.Reserved["ac_pwr"])
	assert.Equal(t, "V1.2", rec.Reserved["swver"])
	assert.Equal(t, int64(23), rec.Reserved["yy"])
	assert.Equal(t, int64(59), rec.Reserved["s"])
	assert.NotContains(t, rec.Reserved, "pv1_v")
	assert.NotContains(t, rec.Reserved, "flags")
	assert.Len(t, rec.Reserved, len(inverterLayout.Fields)-len(surfaced))
}

func TestParseInverterMessage_IsCurrent(t *testing.T) {
	tests := []struct {
		flags int
		want  bool
	}{
		{0x00, true},
		{0x7F, true},
		{0x80, false},
		{0xFF, false},
	}

	for _, tt := range tests {
		rec, err := ParseInverterMessage(inverterFrame(t, map[string]any{"flags": tt.flags}))
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.IsCurrent, "flags=0x%02x", tt.flags)
	}
}

func TestParseInverterMessage_SerialTrim(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1031A12345678901", "1031A12345678901"},
		{"SN42            ", "SN42"},
		{"  SN42\t \r\n", "  SN42"},
		{"", ""},
	}

	for _, tt := range tests {
		rec, err := ParseInverterMessage(inverterFrame(t, map[string]any{"serialno": tt.raw}))
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.InverterSerialNumber)
	}
}

func TestParseInverterMessage_TooShort(t *testing.T) {
	buf := inverterFrame(t, map[string]any{"pv1_v": 1234})

	for _, n := range []int{0, HeaderSize, 100, InverterMessageSize - 1} {
		_, err := ParseInverterMessage(buf[:n])
		require.Error(t, err, "len=%d", n)
		assert.True(t, IsFormatError(err))
		assert.ErrorIs(t, err, ErrShortBuffer)
	}

	_, err := ParseInverterMessage(buf)
	assert.NoError(t, err)
}

func TestLayoutOffsets(t *testing.T) {
	// Each field must sit inside the layout and none may overlap
	covered := make([]string, InverterMessageSize)
	for _, f := range inverterLayout.Fields {
		require.GreaterOrEqual(t, f.Offset, HeaderSize, f.Name)
		require.LessOrEqual(t, f.Offset+f.Width, InverterMessageSize, f.Name)
		for i := f.Offset; i < f.Offset+f.Width; i++ {
			require.Empty(t, covered[i], "%s overlaps %s at byte %d", f.Name, covered[i], i)
			covered[i] = f.Name
		}
	}

	assert.Len(t, inverterLayout.Fields, 45)
	assert.Equal(t, "c_dist", covered[129])
	assert.Equal(t, "s", covered[143])
	for _, i := range []int{12, 13, 18, 31, 104, 105, 144, 145, 146, 147} {
		assert.Empty(t, covered[i], "byte %d should be reserved", i)
	}
}

func TestQuantity(t *testing.T) {
	q := scaled(1234, 0.1, Volt)
	assert.InDelta(t, 123.4, q.Value(), 1e-9)
	assert.Equal(t, "123.4 V", q.String())

	assert.Equal(t, "50.01 Hz", scaled(5001, 0.01, Hertz).String())
	assert.Equal(t, "-5.2 °C", scaled(-52, 0.1, Centigrade).String())
	assert.Equal(t, "12.34 kWh", scaled(1234, 0.01, KilowattHour).String())

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 123.4, "unit": "volt"}`, string(data))
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, "volt", Volt.Name())
	assert.Equal(t, "A", Ampere.Symbol())
	assert.Equal(t, "kilowatt_hour", KilowattHour.String())
	assert.Equal(t, "Unit(99)", Unit(99).Name())
}

func TestMessageTypeName(t *testing.T) {
	assert.Equal(t, "InverterData", MessageTypeName(MsgTypeInverterData))
	assert.Equal(t, "HeartbeatResponse", MessageTypeName(0x17))
	assert.Equal(t, "Unknown(0x99)", MessageTypeName(0x99))
}
