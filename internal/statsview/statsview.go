//go:build statsview

package statsview

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	Address = "localhost:12600"
	path    = "/debug/statsview"
)

// Launch starts the stats server in its own goroutine.
func Launch() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		statsview.New().Start()
	}()

	slog.Info("stats server started", "url", "http://"+Address+path)
}

// Available reports whether the stats server was built in.
func Available() bool {
	return true
}
