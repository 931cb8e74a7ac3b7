package sim

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler
	TaskScheduler

	// Run will process all the events until the simulation finishes
	Run() error

	// RunUntil processes events whose time is not after the given time.
	// Later events stay in the queue.
	RunUntil(t VTime) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// Drain discards all pending events without handling them. Events that
	// own resources are retired. It returns the number of dropped events.
	Drain() int

	// Inspect runs f while no event is being handled, so that f can read
	// state that event handlers write.
	Inspect(f func())

	// Pending returns the number of events waiting to be handled.
	Pending() int

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
