package term

// TokenText returns the printable text for an input token, or "" for
// control tokens like "enter" or "ctrl+c". Tokens follow bubbletea key
// naming, which is what the desktop feeds into SendKey.
func TokenText(token string) string {
	switch token {
	case "space":
		return " "
	case "tab":
		return "\t"
	}
	runes := []rune(token)
	if len(runes) == 1 {
		return token
	}
	return ""
}
