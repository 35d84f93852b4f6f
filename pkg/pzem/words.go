package pzem

// Combine32 joins two adjacent 16-bit registers into one 32-bit value.
// The low word is always the lower-addressed register even though it holds
// the less significant bits; callers pass registers in physical order.
func Combine32(low, high uint16) uint32 {
	return uint32(high)<<16 + uint32(low)
}
