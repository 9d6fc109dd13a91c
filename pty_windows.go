//go:build windows

package termsession

import "errors"

// PtyChannelFactory returns a factory that always fails: pseudo-terminal
// channels are not implemented on Windows. Sessions there need a custom
// transport via WithChannelFactory.
func PtyChannelFactory(termName string) ChannelFactory {
	return func(cmd string, rows, cols int) (Channel, error) {
		return nil, errors.New("pty channels are not supported on windows")
	}
}
