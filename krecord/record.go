// Package krecord defines the record contract shared by every stage of a chain.
//
// A chain never looks inside a record. It only asks for the serialized length
// so that byte rates can be reported per hop; the record itself is forwarded by
// reference to the next stage.
package krecord

// Record is the unit of data pushed through a chain.
type Record interface {
	// BinaryLength returns the number of bytes the record occupies in its
	// serialized form.
	BinaryLength() int
}

// Length returns the serialized length of r. A nil record has length zero.
func Length(r Record) int64 {
	if r == nil {
		return 0
	}
	return int64(r.BinaryLength())
}

// TotalLength returns the summed serialized length of all records.
func TotalLength(records ...Record) int64 {
	var total int64
	for _, r := range records {
		total += Length(r)
	}
	return total
}

// Bytes is a raw, already serialized record.
type Bytes []byte

func (b Bytes) BinaryLength() int {
	return len(b)
}

// MarshalBinary returns the underlying bytes without copying.
func (b Bytes) MarshalBinary() ([]byte, error) {
	return b, nil
}

func (b Bytes) String() string {
	return string(b)
}

var _ Record = Bytes(nil)
