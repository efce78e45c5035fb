//go:build !linux

package term

// IsTerminal always reports false off Linux; callers fall back to plain
// output.
func IsTerminal(fd uintptr) bool {
	return false
}
