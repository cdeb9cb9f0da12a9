package pixgen

// Packs a boolean value into a byte array at the specified bit index. Used
// for mask payloads in stored containers.
func PackBool(value bool, raw []byte, bitIndex int) {
	byteIndex := bitIndex / 8
	bitPos := bitIndex % 8
	if byteIndex >= len(raw) {
		return
	}
	if value {
		raw[byteIndex] |= 1 << bitPos
	} else {
		raw[byteIndex] &^= 1 << bitPos
	}
}

// Unpacks a boolean value from a byte array at the specified bit index.
func UnpackBool(raw []byte, bitIndex int) bool {
	byteIndex := bitIndex / 8
	bitPos := bitIndex % 8
	if byteIndex >= len(raw) {
		return false
	}
	return (raw[byteIndex] & (1 << bitPos)) != 0
}
