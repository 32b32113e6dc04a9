package capture

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solis-service/solis/internal/logging"
	"github.com/solis-service/solis/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heartbeat(serial uint32, reqIdx uint8) []byte {
	h := protocol.Header{MessageType: protocol.MsgTypeHeartbeat, RequestIndex: reqIdx, SerialNumber: serial}
	return protocol.BuildFrame(h, protocol.ControlByte, []byte{0x00})
}

func inverterData(serial uint32) []byte {
	payload := make([]byte, protocol.InverterMessageSize-protocol.HeaderSize)
	payload[50-protocol.HeaderSize] = 0xD2 // pv1_v = 1234
	payload[51-protocol.HeaderSize] = 0x04
	h := protocol.Header{MessageType: protocol.MsgTypeInverterData, RequestIndex: 1, SerialNumber: serial}
	return protocol.BuildFrame(h, protocol.ControlByte, payload)
}

type touchRecorder struct {
	serials []uint32
	addrs   []string
	times   []time.Time
}

func (r *touchRecorder) Touch(serial uint32, remoteAddr string, at time.Time) {
	r.serials = append(r.serials, serial)
	r.addrs = append(r.addrs, remoteAddr)
	r.times = append(r.times, at)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"a515", []byte{0xA5, 0x15}, false},
		{"A5 15", []byte{0xA5, 0x15}, false},
		{"a5:15|00_01", []byte{0xA5, 0x15, 0x00, 0x01}, false},
		{"0xa515", []byte{0xA5, 0x15}, false},
		{"  a5\t15  ", []byte{0xA5, 0x15}, false},
		{"a51", nil, true},
		{"zz", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRead(t *testing.T) {
	hb := hex.EncodeToString(heartbeat(42, 3))
	input := strings.Join([]string{
		"# captured 2024-05-01",
		"",
		hb,
		`{"timestamp":"2024-05-01T10:00:00Z","remote_addr":"10.0.0.7:41000","direction":"sent","payload_hex":"` + hb + `"}`,
		`{"remote_addr":"10.0.0.8:41000","payload_hex":"` + hb + `"}`,
	}, "\n")

	entries, err := Read(strings.NewReader(input), "test.jsonl")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 3, entries[0].Line)
	assert.Equal(t, "test.jsonl", entries[0].Source)
	assert.Equal(t, logging.DirectionInbound, entries[0].Direction)
	assert.Empty(t, entries[0].RemoteAddr)
	assert.True(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, 4, entries[1].Line)
	assert.Equal(t, logging.DirectionOutbound, entries[1].Direction)
	assert.Equal(t, "10.0.0.7:41000", entries[1].RemoteAddr)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), entries[1].Timestamp.UTC())

	assert.Equal(t, logging.DirectionInbound, entries[2].Direction)
	assert.Equal(t, heartbeat(42, 3), entries[2].Raw)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"bad hex", "a5\nzz", "x.hex:2"},
		{"bad json", "{not json", "x.hex:1"},
		{"bad timestamp", `{"timestamp":"yesterday","payload_hex":"a5"}`, "x.hex:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "x.hex")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadPath_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hex"), []byte(hex.EncodeToString(heartbeat(2, 1))+"\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jsonl"), []byte(`{"payload_hex":"`+hex.EncodeToString(heartbeat(1, 1))+`"}`+"\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))

	entries, err := ReadPath(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.jsonl", entries[0].Source)
	assert.Equal(t, "b.hex", entries[1].Source)

	_, err = ReadPath(t.TempDir())
	assert.Error(t, err)

	_, err = ReadPath(filepath.Join(dir, "missing.hex"))
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	captured := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Line: 1, Raw: heartbeat(42, 7), Direction: logging.DirectionInbound, RemoteAddr: "10.0.0.7:41000", Timestamp: captured},
		{Line: 2, Raw: inverterData(42), Direction: logging.DirectionInbound},
		{Line: 3, Raw: []byte{0xA5, 0x00}, Direction: logging.DirectionInbound},
		{Line: 4, Raw: heartbeat(42, 7), Direction: logging.DirectionOutbound},
	}

	tracker := &touchRecorder{}
	results, stats, err := Replay(context.Background(), entries, ReplayConfig{
		ResponseOptions: []protocol.ResponseOption{protocol.WithTimestamp(1700000000)},
		Tracker:         tracker,
		Now:             func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Decoded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.Responses)
	assert.Equal(t, 2, stats.MessageTypes[protocol.MsgTypeHeartbeat])
	assert.Equal(t, 1, stats.MessageTypes[protocol.MsgTypeInverterData])

	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Response, protocol.ResponseFrameSize)
	assert.Equal(t, byte(0x17), results[0].Response[4])
	assert.Equal(t, byte(7), results[0].Response[5])

	require.NotNil(t, results[1].Message.Telemetry)
	assert.InDelta(t, 123.4, results[1].Message.Telemetry.DCVoltagePV1.Value(), 1e-9)
	assert.Equal(t, byte(0x12), results[1].Response[4])

	assert.True(t, protocol.IsFormatError(results[2].Err))
	assert.Nil(t, results[2].Message)
	assert.Nil(t, results[2].Response)

	assert.NotNil(t, results[3].Message)
	assert.Nil(t, results[3].Response, "outbound frames are not answered")

	assert.Equal(t, []uint32{42, 42}, tracker.serials)
	assert.Equal(t, []string{"10.0.0.7:41000", ""}, tracker.addrs)
	assert.Equal(t, []time.Time{captured, now}, tracker.times)
}

func TestReplay_NoResponseType(t *testing.T) {
	raw := protocol.BuildFrame(protocol.Header{MessageType: 0x10, SerialNumber: 1}, protocol.ControlByte, []byte{0x01})

	results, stats, err := Replay(context.Background(), []Entry{{Raw: raw, Direction: logging.DirectionInbound}}, ReplayConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Decoded)
	assert.Equal(t, 0, stats.Responses)
	assert.NoError(t, results[0].Err)
	assert.Nil(t, results[0].Response)
}

func TestReplay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _, err := Replay(ctx, []Entry{{Raw: heartbeat(1, 1)}}, ReplayConfig{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
