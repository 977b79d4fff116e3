package services

import (
	"errors"
	"fmt"
	"sync"
	"vehlog/internal/activity"
	"vehlog/internal/models"
)

const (
	ModeReplace = "replace"
	ModeAppend  = "append"
)

var ErrIndexOutOfRange = errors.New("record index out of range")

// WorkingSetServiceInterface holds the process-wide live record collection
// served over HTTP. Every mutation bumps Version.
type WorkingSetServiceInterface interface {
	Load(text, mode string, clean bool) (int, error)
	SetRecords(records []models.Record)
	AppendRecords(records []models.Record)
	Records() []models.Record
	AddRecord(r models.Record)
	UpdateRecord(index int, r models.Record) error
	DeleteRecord(index int) error
	Clean()
	Len() int
	Version() uint64
}

type WorkingSetService struct {
	mu      sync.RWMutex
	records []models.Record
	version uint64
}

func NewWorkingSetService() WorkingSetServiceInterface {
	return &WorkingSetService{records: []models.Record{}}
}

// Load parses text and replaces or extends the working set with the result.
// It returns the number of parsed records.
func (ws *WorkingSetService) Load(text, mode string, clean bool) (int, error) {
	records, err := activity.Parse(text)
	if err != nil {
		return 0, err
	}
	if clean {
		records = activity.CleanAll(records)
	}

	switch mode {
	case "", ModeReplace:
		ws.SetRecords(records)
	case ModeAppend:
		ws.AppendRecords(records)
	default:
		return 0, fmt.Errorf("unknown load mode %q", mode)
	}
	return len(records), nil
}

func (ws *WorkingSetService) SetRecords(records []models.Record) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.records = models.CloneRecords(records)
	if ws.records == nil {
		ws.records = []models.Record{}
	}
	ws.version++
}

func (ws *WorkingSetService) AppendRecords(records []models.Record) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.records = append(ws.records, records...)
	ws.version++
}

// Records returns a copy; callers may modify it freely.
func (ws *WorkingSetService) Records() []models.Record {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := models.CloneRecords(ws.records)
	if out == nil {
		out = []models.Record{}
	}
	return out
}

func (ws *WorkingSetService) AddRecord(r models.Record) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.records = append(ws.records, r)
	ws.version++
}

func (ws *WorkingSetService) UpdateRecord(index int, r models.Record) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if index < 0 || index >= len(ws.records) {
		return fmt.Errorf("update %d: %w", index, ErrIndexOutOfRange)
	}
	ws.records[index] = r
	ws.version++
	return nil
}

func (ws *WorkingSetService) DeleteRecord(index int) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if index < 0 || index >= len(ws.records) {
		return fmt.Errorf("delete %d: %w", index, ErrIndexOutOfRange)
	}
	ws.records = append(ws.records[:index], ws.records[index+1:]...)
	ws.version++
	return nil
}

// Clean normalizes every record in place.
func (ws *WorkingSetService) Clean() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.records = activity.CleanAll(ws.records)
	ws.version++
}

func (ws *WorkingSetService) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.records)
}

func (ws *WorkingSetService) Version() uint64 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.version
}
