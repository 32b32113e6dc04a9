// Package capture reads recorded Solis logger traffic and replays it through
// the protocol decoder.
//
// A capture file holds one frame per line, either as plain hex or as a JSONL
// record:
//
//	a5 0a 00 10 47 01 02 a2 f1 53 65 00 ...
//	{"timestamp":"2024-05-01T10:00:00Z","remote_addr":"10.0.0.7:41000","direction":"inbound","payload_hex":"a50a0010..."}
//
// Replay decodes each frame, builds the mock acknowledgement a collector would
// send for inbound frames, and reports per-frame results plus summary stats.
package capture
