package protocol

import "fmt"

// ChecksumByte computes the V5 frame checksum: an 8-bit running sum of every
// byte in b. Empty input yields 0.
func ChecksumByte(b []byte) uint8 {
	var lrc int
	for _, x := range b {
		lrc = (lrc + int(x)) & 0xFF
	}
	return uint8(lrc & 0xFF)
}

// VerifyChecksum checks the checksum byte of a complete frame (start marker
// through end marker). The checksum covers frame[1:len-2].
func VerifyChecksum(frame []byte) error {
	if len(frame) < 1+TrailerSize {
		return shortBuffer("verify checksum", 1+TrailerSize, len(frame))
	}

	pos := len(frame) - TrailerSize
	if got, want := frame[pos], ChecksumByte(frame[1:pos]); got != want {
		return &FormatError{Op: "verify checksum", Err: fmt.Errorf("%w: frame has 0x%02x, computed 0x%02x", ErrChecksumMismatch, got, want)}
	}
	return nil
}
