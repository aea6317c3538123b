// Package events provides an asynchronous, non-blocking fan-out bus that
// decouples the detector's inline callbacks, invoked synchronously on the
// sampling thread and never allowed to suspend, from slower downstream
// consumers such as MQTT publish or a websocket broadcast.
package events

// BusStats reports the running counters of a Bus.
type BusStats struct {
	Received uint64
	Dropped  uint64
	Consumed uint64
}
