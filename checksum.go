package cp2102n

// fletcher16 computes the checksum the CP2102N firmware validates over its
// configuration block: a Fletcher-16 running sum with both accumulators
// seeded at 0xFF, processed in chunks of up to 20 bytes with a byte fold
// after every chunk and once more at the end. The uint16 wraparound is
// intentional; the result must match the vendor tooling bit for bit.
func fletcher16(data []byte) uint16 {
	var sum1, sum2 uint16 = 0xFF, 0xFF

	for len(data) > 0 {
		n := min(len(data), 20)
		for _, b := range data[:n] {
			sum1 += uint16(b)
			sum2 += sum1
		}
		data = data[n:]
		sum1 = sum1&0xFF + sum1>>8
		sum2 = sum2&0xFF + sum2>>8
	}

	// second reduction step to reduce both sums to 8 bits
	sum1 = sum1&0xFF + sum1>>8
	sum2 = sum2&0xFF + sum2>>8

	return sum2<<8 | sum1
}
