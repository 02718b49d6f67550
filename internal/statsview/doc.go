// Package statsview serves Go runtime charts (heap, goroutines, GC) while
// the emulator runs. The server is only linked in when building with the
// statsview tag:
//
//	go build -tags statsview
//
// The charts are then available at localhost:12600/debug/statsview.
package statsview
