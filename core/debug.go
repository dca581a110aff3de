package core

import "duadc/protocol"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one pipeline event for post-mortem analysis
type TraceEvent struct {
	Kind  uint8  // Event kind code
	Seq   uint32 // Global event sequence number
	Value uint32 // Kind-dependent value
}

// Trace event kind codes
const (
	TracePassStart = 1 // Start command issued to the master unit
	TraceScanDone  = 2 // Burst formatted and transfer re-armed
	TraceOverrun   = 3 // Completion event arrived before burst finished
	TraceTxIdle    = 4 // Transmit notifications disabled on empty ring
	TraceRxByte    = 5 // Inbound byte buffered
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by host or target code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	traceRing [TraceRingSize]TraceEvent
	traceHead uint8
	traceSeq  uint32

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, stderr, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if the channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message
		}
	}
}

// trace captures a pipeline event in the ring buffer
// Always non-blocking and cheap enough for handler context
func trace(kind uint8, value uint32) {
	idx := traceHead
	traceSeq++
	traceRing[idx] = TraceEvent{Kind: kind, Seq: traceSeq, Value: value}
	traceHead = (idx + 1) % TraceRingSize
}

// DumpTrace outputs the event ring, oldest first, through the debug
// writer. Call it after the pipeline is stopped.
func DumpTrace() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("=== pipeline trace ===")
	start := traceHead
	for i := uint8(0); i < TraceRingSize; i++ {
		idx := (start + i) % TraceRingSize
		evt := &traceRing[idx]
		if evt.Kind == 0 {
			continue // Empty slot
		}

		var name string
		switch evt.Kind {
		case TracePassStart:
			name = "PASS_START"
		case TraceScanDone:
			name = "SCAN_DONE"
		case TraceOverrun:
			name = "OVERRUN!"
		case TraceTxIdle:
			name = "TX_IDLE"
		case TraceRxByte:
			name = "RX_BYTE"
		default:
			name = "UNKNOWN"
		}

		buf := append([]byte(name), ' ')
		buf = protocol.AppendInt(buf, int(evt.Seq))
		buf = protocol.AppendInt(buf, int(evt.Value))
		debugPrintln(string(buf))
	}
	debugPrintln("=== end trace ===")
}

// ClearTrace clears the event ring
func ClearTrace() {
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceHead = 0
	traceSeq = 0
}
