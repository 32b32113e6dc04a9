package protocol

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumByte(t *testing.T) {
	assert.Equal(t, uint8(0), ChecksumByte(nil))
	assert.Equal(t, uint8(0), ChecksumByte([]byte{}))
	assert.Equal(t, uint8(0xFE), ChecksumByte([]byte{0xFF, 0xFF}))
	assert.Equal(t, uint8(0x07), ChecksumByte([]byte{0x07}))
	assert.Equal(t, uint8(0x00), ChecksumByte([]byte{0x80, 0x80}))
}

func TestChecksumByte_SumComposable(t *testing.T) {
	pairs := [][2][]byte{
		{{0x01, 0x02}, {0x03}},
		{{0xFF, 0xFE, 0xFD}, {0xFC, 0x10}},
		{{}, {0xAA, 0xAA}},
		{{0x42, 0x10}, {}},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		sum := 0
		for _, x := range b {
			sum += int(x)
		}
		want := uint8((int(ChecksumByte(a)) + sum) % 256)
		assert.Equal(t, want, ChecksumByte(append(append([]byte{}, a...), b...)))
	}
}

func TestMockServerResponse(t *testing.T) {
	h := Header{MessageType: 0x31, RequestIndex: 5, ResponseIndex: 9, SerialNumber: 42}

	resp, err := MockServerResponse(h, []byte{0x07}, WithTimestamp(1700000000))
	require.NoError(t, err)

	require.Len(t, resp, ResponseFrameSize)
	assert.Equal(t, 23, len(resp))
	assert.Equal(t, byte(0xA5), resp[0])
	assert.Equal(t, uint16(10), binary.LittleEndian.Uint16(resp[1:3]))
	assert.Equal(t, byte(0x00), resp[3])
	assert.Equal(t, byte(0x01), resp[4], "response type")
	assert.Equal(t, byte(5), resp[5], "request index fills the response index slot")
	assert.Equal(t, byte(5), resp[6])
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(resp[7:11]))
	assert.Equal(t, byte(0x07), resp[11], "echoed byte")
	assert.Equal(t, byte(0x01), resp[12])
	assert.Equal(t, uint32(1700000000), binary.LittleEndian.Uint32(resp[13:17]))
	assert.Equal(t, []byte{0xAA, 0xAA, 0x00, 0x00}, resp[17:21])
	assert.Equal(t, ChecksumByte(resp[1:21]), resp[21])
	assert.Equal(t, byte(0x15), resp[22])
}

func TestMockServerResponse_KnownFrame(t *testing.T) {
	h := Header{MessageType: MsgTypeHeartbeat, RequestIndex: 0x2C, SerialNumber: 0x6553F1A2}

	resp, err := MockServerResponse(h, []byte{0x00, 0x01}, WithTimestamp(0x65550000))
	require.NoError(t, err)

	want := []byte{
		0xA5, 0x0A, 0x00, 0x00, 0x17, 0x2C, 0x2C, 0xA2, 0xF1, 0x53, 0x65,
		0x00, 0x01, 0x00, 0x00, 0x55, 0x65, 0xAA, 0xAA, 0x00, 0x00,
	}
	want = append(want, ChecksumByte(want[1:]), 0x15)
	assert.Equal(t, want, resp)
}

func TestMockServerResponse_Clock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 999_000_000, time.FixedZone("CET", 3600))
	h := Header{MessageType: MsgTypeInverterData, RequestIndex: 1, SerialNumber: 7}

	resp, err := MockServerResponse(h, []byte{0x02}, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	assert.Equal(t, uint32(fixed.Unix()), binary.LittleEndian.Uint32(resp[13:17]))
	assert.Equal(t, byte(0x12), resp[4])
}

func TestMockServerResponse_DefaultClock(t *testing.T) {
	before := uint32(time.Now().Unix())
	resp, err := MockServerResponse(Header{MessageType: MsgTypeHeartbeat}, []byte{0x00})
	after := uint32(time.Now().Unix())
	require.NoError(t, err)

	ts := binary.LittleEndian.Uint32(resp[13:17])
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestMockServerResponse_EmptyPayload(t *testing.T) {
	resp, err := MockServerResponse(Header{MessageType: 0x31}, nil, WithTimestamp(1))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsArgumentError(err))

	resp, err = MockServerResponse(Header{MessageType: 0x31}, []byte{}, WithTimestamp(1))
	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestMockServerResponse_TypeBelowOffset(t *testing.T) {
	resp, err := MockServerResponse(Header{MessageType: 0x2F}, []byte{0x01}, WithTimestamp(1))
	require.Error(t, err)
	assert.Nil(t, resp)

	var ae *ArgumentError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "header.MessageType", ae.Arg)

	_, err = MockServerResponse(Header{MessageType: 0x30}, []byte{0x01}, WithTimestamp(1))
	assert.NoError(t, err)
}
