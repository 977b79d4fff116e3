package snapshot

import (
	"sync"
	"time"
	"vehlog/internal/providers"
	"vehlog/internal/snapshot/interfaces"
	storage "vehlog/internal/storage/interfaces"
	"vehlog/internal/structures"
)

const defaultMaintenanceInterval = 10 * time.Minute

// Scheduler restores the store at startup, runs periodic maintenance of the
// persistence driver and flushes the store on shutdown.
type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	store  StoreInterface
	kv     storage.KeyValueInterface
	opsMu  sync.Mutex
	stop   chan struct{}
	done   chan struct{}
}

func (s *Scheduler) Init() {
	interval := s.config.Persistence.MaintenanceInterval
	if interval <= 0 {
		interval = defaultMaintenanceInterval
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.maintain()
			}
		}
	}()
}

func (s *Scheduler) maintain() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.kv.Maintain(); err != nil {
		s.logger.Errorf(providers.TypeStore, "Error during persistence maintenance: %s", err)
		return
	}
	s.logger.Debugf(providers.TypeStore, "Persistence maintenance done")
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}

func (s *Scheduler) Restore() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.store.Load()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStore, "Flushing snapshots...")
	err := s.store.Flush()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while flushing snapshots: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store StoreInterface, kv storage.KeyValueInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		store:  store,
		kv:     kv,
	}
}
