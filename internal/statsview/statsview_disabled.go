//go:build !statsview

package statsview

import "log/slog"

func Launch() {
	slog.Warn("stats server not built in, rebuild with -tags statsview")
}

func Available() bool {
	return false
}
