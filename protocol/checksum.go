package protocol

import "math"

// Checksum computes the single-byte additive checksum over a frame's payload.
// The payload covers every byte between the start marker and the checksum
// field; summation is modulo 256 per the KUAIQU datasheet.
func Checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return sum
}

// fixedPointTolerance absorbs float64 representation noise when checking
// that a value fits the device's milli-unit precision.
const fixedPointTolerance = 1e-6

// splitFixedPoint splits a value into the integer and milli parts the wire
// format carries. Rejects values the device cannot encode: non-finite,
// negative, above MaxEncodable, or with more than three fractional digits.
func splitFixedPoint(name string, v float64) (intPart, milliPart int, err error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, &InvalidParameterError{Name: name, Value: v, Reason: "value must be finite"}
	}
	if v < 0 {
		return 0, 0, &InvalidParameterError{Name: name, Value: v, Reason: "value must not be negative"}
	}
	if v > MaxEncodable {
		return 0, 0, &InvalidParameterError{Name: name, Value: v, Reason: "value exceeds encodable range"}
	}

	scaled := v * MilliPerUnit
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > fixedPointTolerance*MilliPerUnit {
		return 0, 0, &InvalidParameterError{Name: name, Value: v, Reason: "more fractional digits than the device encodes"}
	}

	m := int(rounded)
	return m / MilliPerUnit, m % MilliPerUnit, nil
}

// fixedPointValue reassembles a value from its wire fields.
func fixedPointValue(intPart, milliPart int) float64 {
	return float64(intPart) + float64(milliPart)/MilliPerUnit
}
