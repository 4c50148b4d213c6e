package pix

import "fmt"

// Checksum computes the CRC-16/CCITT-FALSE of data and renders it as four
// uppercase hex digits, the form the BR Code trailer expects. The input is
// the full payload up to and including the "6304" checksum header.
func Checksum(data string) string {
	var crc uint16 = 0xFFFF
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
