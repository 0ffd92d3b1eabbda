package output

// Address display boundaries: the first five characters, then everything
// from index 39 on. A 42-character address keeps its last three characters.
const (
	addressHeadLen   = 5
	addressTailStart = 39
	addressEllipsis  = "..."
)

// FormatAddress shortens an address for display, e.g.
// 0xAbC0000000000000000000000000000000000123 becomes 0xAbC...123.
// Addresses too short to shorten are returned unchanged.
func FormatAddress(addr string) string {
	if len(addr) <= addressTailStart {
		return addr
	}
	return addr[:addressHeadLen] + addressEllipsis + addr[addressTailStart:]
}
