package runtime

//go:generate mockgen -destination=mock_runtime_test.go -package=runtime . TerminalSink
//go:generate mockgen -destination=mock_monitor_test.go -package=runtime github.com/birdayz/kchain/kmonitor Monitor
