package db4d

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
)

// decodeBool reads VK_BOOLEAN: 2 bytes, u16 LE, false iff zero. Decodes
// the full u16 first and compares against zero, rather than truncating
// to a single byte before the comparison.
func (f *frameReader) decodeBool() (bool, error) {
	b, err := f.readExact(2)
	if err != nil {
		return false, err
	}
	return binary.LittleEndian.Uint16(b) != 0, nil
}

// decodeU16 reads VK_BYTE / VK_WORD: 2 bytes, u16 LE.
func (f *frameReader) decodeU16() (uint16, error) {
	b, err := f.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// decodeU32 reads VK_LONG: 4 bytes, u32 LE.
func (f *frameReader) decodeU32() (uint32, error) {
	b, err := f.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// decodeU64 reads VK_LONG8 / VK_DURATION: 8 bytes, u64 LE.
func (f *frameReader) decodeU64() (uint64, error) {
	b, err := f.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// decodeReal reads VK_REAL: 8 bytes, IEEE-754 double, little-endian on
// the wire (the server's native byte order for the data it produces).
func (f *frameReader) decodeReal() (float64, error) {
	b, err := f.readExact(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// decodeFloat reads VK_FLOAT, the server's non-standard variable
// precision float: u32 exponent, 1 byte sign, u32 data-length L, then L
// ASCII bytes of mantissa digits parsed as a decimal integer. Result is
// (-1)^sign * (1 + mantissa*2^-23) * 2^(exp-127).
//
// This layout is unique to the 4D wire format, so it's hand-rolled.
// Callers should pin a regression test with values captured from a
// real server before relying on this in production.
func (f *frameReader) decodeFloat() (float64, error) {
	exp, err := f.decodeU32()
	if err != nil {
		return 0, err
	}
	signByte, err := f.readExact(1)
	if err != nil {
		return 0, err
	}
	dataLen, err := f.decodeU32()
	if err != nil {
		return 0, err
	}
	digits, err := f.readExact(int(dataLen))
	if err != nil {
		return 0, err
	}
	mantissa, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, &DecodeError{Reason: fmt.Sprintf("VK_FLOAT mantissa digits: %v", err)}
	}

	sign := 1.0
	if signByte[0] != 0 {
		sign = -1.0
	}
	return sign * (1 + float64(mantissa)*math.Pow(2, -23)) * math.Pow(2, float64(int64(exp)-127)), nil
}

// decodeString reads VK_STRING: a u32 raw length prefix whose effective
// length is L = 2^32 - raw_len (unsigned wraparound handles raw_len==0
// as L==0, the empty-string case), followed by 2*L bytes of UTF-16LE.
func (f *frameReader) decodeString() (string, error) {
	rawLen, err := f.decodeU32()
	if err != nil {
		return "", err
	}
	length := -rawLen // unsigned wraparound: 2^32 - rawLen, and 0 when rawLen == 0
	if length == 0 {
		return "", nil
	}
	raw, err := f.readExact(int(length) * 2)
	if err != nil {
		return "", err
	}
	return decodeUTF16LE(raw)
}

func decodeUTF16LE(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", &DecodeError{Reason: "odd-length UTF-16LE payload"}
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

// decodeBlob reads VK_BLOB / VK_IMAGE: a u32 length prefix followed by
// that many raw bytes.
func (f *frameReader) decodeBlob() ([]byte, error) {
	length, err := f.decodeU32()
	if err != nil {
		return nil, err
	}
	return f.readExact(int(length))
}

// decodeDateTime reads VK_TIMESTAMP / VK_TIME: u16 year LE, u8 month,
// u8 day, u32 millis-of-day LE. Formats as DD.MM.YYYY, or DD.MM.YYYY
// HH:MM:SS when millis is non-zero.
func (f *frameReader) decodeDateTime() (string, error) {
	year, err := f.decodeU16()
	if err != nil {
		return "", err
	}
	monthDay, err := f.readExact(2)
	if err != nil {
		return "", err
	}
	month, day := monthDay[0], monthDay[1]
	millis, err := f.decodeU32()
	if err != nil {
		return "", err
	}

	if millis == 0 {
		return fmt.Sprintf("%02d.%02d.%04d", day, month, year), nil
	}

	totalSeconds := millis / 1000
	hh := totalSeconds / 3600
	mm := (totalSeconds % 3600) / 60
	ss := totalSeconds % 60
	return fmt.Sprintf("%02d.%02d.%04d %02d:%02d:%02d", day, month, year, hh, mm, ss), nil
}

// decodeColumn decodes one column value of the given type tag, used by
// the statement executor's row-decode loop.
func (f *frameReader) decodeColumn(t ColumnType) (Value, error) {
	switch t {
	case TypeBoolean:
		b, err := f.decodeBool()
		if err != nil {
			return Value{}, err
		}
		return boolValue(b), nil
	case TypeByte, TypeWord:
		v, err := f.decodeU16()
		if err != nil {
			return Value{}, err
		}
		return int32Value(int32(v)), nil
	case TypeLong:
		v, err := f.decodeU32()
		if err != nil {
			return Value{}, err
		}
		return int32Value(int32(v)), nil
	case TypeLong8, TypeDuration:
		v, err := f.decodeU64()
		if err != nil {
			return Value{}, err
		}
		return int64Value(int64(v)), nil
	case TypeReal:
		v, err := f.decodeReal()
		if err != nil {
			return Value{}, err
		}
		return float64Value(v), nil
	case TypeFloat:
		v, err := f.decodeFloat()
		if err != nil {
			return Value{}, err
		}
		return float64Value(v), nil
	case TypeString:
		v, err := f.decodeString()
		if err != nil {
			return Value{}, err
		}
		return stringValue(v), nil
	case TypeBlob, TypeImage:
		v, err := f.decodeBlob()
		if err != nil {
			return Value{}, err
		}
		return blobValue(v), nil
	case TypeTimestamp, TypeTime:
		v, err := f.decodeDateTime()
		if err != nil {
			return Value{}, err
		}
		return dateTimeValue(v), nil
	default:
		return Value{}, &TypeNotSupported{Tag: string(t)}
	}
}
