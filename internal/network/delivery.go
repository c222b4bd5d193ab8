package network

// Delivery decides which goroutine runs a request's completion callback.
// Dispatchers never invoke callbacks inline; they always post through the
// request's delivery, which makes the delivery-thread contract an explicit,
// compile-time-visible choice.
type Delivery interface {
	Post(fn func())
}

// SyncDelivery runs callbacks inline on the posting goroutine. Useful in
// tests and for callers that do their own hand-off.
type SyncDelivery struct{}

func (SyncDelivery) Post(fn func()) { fn() }

// SerialDelivery runs callbacks one at a time on a single background
// goroutine, preserving post order. This is the SDK's stand-in for a main
// thread: components that must observe completions sequentially (the sync
// engine in particular) share one SerialDelivery.
type SerialDelivery struct {
	ch   chan func()
	done chan struct{}
}

// NewSerialDelivery starts the delivery goroutine immediately.
func NewSerialDelivery() *SerialDelivery {
	d := &SerialDelivery{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *SerialDelivery) loop() {
	defer close(d.done)
	for fn := range d.ch {
		fn()
	}
}

// Post schedules fn on the delivery goroutine. Posting after Stop panics,
// matching the send-on-closed-channel contract; callers stop producers first.
func (d *SerialDelivery) Post(fn func()) {
	d.ch <- fn
}

// Stop drains outstanding callbacks and waits for the goroutine to exit.
func (d *SerialDelivery) Stop() {
	close(d.ch)
	<-d.done
}
