package essentials

import "runtime"

// ZeroizeBytes clears buf. The KeepAlive keeps the stores from being
// optimized away (golang/go#33325); copies made elsewhere are not touched.
func ZeroizeBytes(buf []byte) {
	clear(buf)
	runtime.KeepAlive(buf)
}
