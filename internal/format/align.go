package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n uint64) uint64 {
	return (n + WordMask) &^ WordMask
}

// Units converts a payload size to header units: the payload rounded up to
// whole units plus one unit for the header itself. The caller must have
// checked n against MaxPayloadForUnits first.
//
// Example:
//
//	Units(1)  = 2
//	Units(16) = 2
//	Units(17) = 3
func Units(n uint64) uint64 {
	return (n+UnitSize-1)/UnitSize + 1
}

// MaxPayloadForUnits is the largest payload Units can convert without the
// intermediate sum wrapping.
const MaxPayloadForUnits = MaxSize - 2*UnitSize

// UnitsPayload returns the payload capacity of a block spanning units header
// units.
func UnitsPayload(units uint64) uint64 {
	if units == 0 {
		return 0
	}
	return (units - 1) * UnitSize
}

// CeilDiv returns ceil(n/d) for d > 0.
func CeilDiv(n, d uint64) uint64 {
	if n == 0 {
		return 0
	}
	return (n-1)/d + 1
}

// AlignUp returns n rounded up to a multiple of align, which must be a power
// of two.
func AlignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
