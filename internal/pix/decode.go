package pix

import (
	"fmt"
	"strconv"
)

// Field is one parsed TLV entry. Offset is the byte position of the tag in
// the payload.
type Field struct {
	Length int    `json:"length"`
	Value  string `json:"value"`
	Offset int    `json:"offset"`
}

// Result reports the outcome of Validate. Errors accumulates every
// structural problem found; Valid is true only when Errors is empty and the
// recomputed CRC matches the provided one.
type Result struct {
	Valid       bool             `json:"valid"`
	Fields      map[string]Field `json:"fields"`
	Errors      []string         `json:"errors,omitempty"`
	ProvidedCRC string           `json:"provided_crc,omitempty"`
	ExpectedCRC string           `json:"expected_crc,omitempty"`
}

const minPayloadLen = 10

// Validate parses a BR Code payload left to right and rechecks its CRC.
// It never panics on malformed input; problems are collected as
// human-readable diagnostics instead of aborting the caller.
func Validate(payload string) Result {
	res := Result{Fields: map[string]Field{}}

	if len(payload) < minPayloadLen {
		res.Errors = append(res.Errors, fmt.Sprintf("payload is %d bytes, shorter than the %d-byte minimum", len(payload), minPayloadLen))
		return res
	}

	offset := 0
	for offset+4 <= len(payload) {
		tag := payload[offset : offset+2]
		length, err := strconv.Atoi(payload[offset+2 : offset+4])
		if err != nil || length < 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("non-numeric length %q for tag %s at offset %d", payload[offset+2:offset+4], tag, offset))
			break
		}
		if offset+4+length > len(payload) {
			res.Errors = append(res.Errors, fmt.Sprintf("tag %s at offset %d declares %d bytes but only %d remain", tag, offset, length, len(payload)-offset-4))
			break
		}
		res.Fields[tag] = Field{
			Length: length,
			Value:  payload[offset+4 : offset+4+length],
			Offset: offset,
		}
		offset += 4 + length
	}
	if len(res.Errors) == 0 && offset != len(payload) {
		res.Errors = append(res.Errors, fmt.Sprintf("%d trailing bytes after offset %d do not align to the checksum boundary", len(payload)-offset, offset))
	}

	// The last four characters are the transmitted CRC; everything before
	// them, "6304" header included, is the checksummed region.
	res.ProvidedCRC = payload[len(payload)-4:]
	res.ExpectedCRC = Checksum(payload[:len(payload)-4])
	if res.ProvidedCRC != res.ExpectedCRC {
		res.Errors = append(res.Errors, fmt.Sprintf("checksum mismatch: payload carries %s, computed %s", res.ProvidedCRC, res.ExpectedCRC))
	}

	res.Valid = len(res.Errors) == 0
	return res
}
