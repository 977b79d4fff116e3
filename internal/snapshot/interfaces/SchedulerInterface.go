package interfaces

// SchedulerInterface owns the snapshot store's life on disk.
type SchedulerInterface interface {
	// Restore loads persisted snapshots; a failure leaves the store empty.
	Restore()
	// Init starts periodic flushing and maintenance.
	Init()
	Stop()
	// Persist flushes the store once more before shutdown.
	Persist() error
}
