package acquisition

import "strings"

// ChannelMatches reports whether a wire channel name designates the electrode.
// Either the whole name matches, or one of its tokens split on '-', '_' or
// whitespace does, so "EEG-Fp1" and "fp1 raw" both match "Fp1" while "Fp10"
// and "AFp1" do not.
func ChannelMatches(electrode, channel string) bool {
	if strings.EqualFold(channel, electrode) {
		return true
	}
	tokens := strings.FieldsFunc(channel, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
	})
	for _, tok := range tokens {
		if strings.EqualFold(tok, electrode) {
			return true
		}
	}
	return false
}

// FindChannel returns the index of the first channel matching electrode, or -1.
func FindChannel(channels []string, electrode string) int {
	for i, ch := range channels {
		if ChannelMatches(electrode, ch) {
			return i
		}
	}
	return -1
}
