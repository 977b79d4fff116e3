package services

import (
	"sync"
	"testing"
	"vehlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "2024-01-01 10:00,alice,V1,ATSEU,T1,R1\n" +
	"2024-01-01 11:00,bob,V2,ACME,T2,R2\n"

func newWorkingSet() *WorkingSetService {
	return NewWorkingSetService().(*WorkingSetService)
}

func TestWorkingSet_StartsEmpty(t *testing.T) {
	ws := newWorkingSet()
	assert.Equal(t, 0, ws.Len())
	assert.Equal(t, uint64(0), ws.Version())
	assert.NotNil(t, ws.Records())
	assert.Empty(t, ws.Records())
}

func TestWorkingSet_LoadReplace(t *testing.T) {
	ws := newWorkingSet()
	ws.AddRecord(models.Record{User: "old"})

	n, err := ws.Load(sampleLog, ModeReplace, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, ws.Len())
	assert.Equal(t, "alice", ws.Records()[0].User)
}

func TestWorkingSet_LoadAppend(t *testing.T) {
	ws := newWorkingSet()
	ws.AddRecord(models.Record{User: "old"})

	n, err := ws.Load(sampleLog, ModeAppend, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, ws.Len())
	assert.Equal(t, "old", ws.Records()[0].User)
}

func TestWorkingSet_LoadClean(t *testing.T) {
	ws := newWorkingSet()
	_, err := ws.Load("2024-01-01T10:00, alice ,V1,acme,t1,r1\n", "", true)
	require.NoError(t, err)

	r := ws.Records()[0]
	assert.Equal(t, "2024-01-01 10:00:00", r.Timestamp)
	assert.Equal(t, "ACME", r.SCAC)
}

func TestWorkingSet_LoadUnknownMode(t *testing.T) {
	ws := newWorkingSet()
	_, err := ws.Load(sampleLog, "merge", false)
	assert.Error(t, err)
	assert.Equal(t, 0, ws.Len())
}

func TestWorkingSet_RecordsIsCopy(t *testing.T) {
	ws := newWorkingSet()
	ws.SetRecords([]models.Record{{User: "alice"}})

	out := ws.Records()
	out[0].User = "mallory"

	assert.Equal(t, "alice", ws.Records()[0].User)
}

func TestWorkingSet_SetRecordsCopiesInput(t *testing.T) {
	ws := newWorkingSet()
	in := []models.Record{{User: "alice"}}
	ws.SetRecords(in)
	in[0].User = "mallory"

	assert.Equal(t, "alice", ws.Records()[0].User)
}

func TestWorkingSet_UpdateAndDelete(t *testing.T) {
	ws := newWorkingSet()
	ws.SetRecords([]models.Record{{User: "a"}, {User: "b"}, {User: "c"}})

	require.NoError(t, ws.UpdateRecord(1, models.Record{User: "B"}))
	require.NoError(t, ws.DeleteRecord(0))

	out := ws.Records()
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].User)
	assert.Equal(t, "c", out[1].User)

	assert.ErrorIs(t, ws.UpdateRecord(5, models.Record{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, ws.DeleteRecord(-1), ErrIndexOutOfRange)
}

func TestWorkingSet_VersionBumpsOnEveryMutation(t *testing.T) {
	ws := newWorkingSet()
	ws.SetRecords([]models.Record{{User: "a"}})
	ws.AppendRecords([]models.Record{{User: "b"}})
	ws.AddRecord(models.Record{User: "c"})
	require.NoError(t, ws.UpdateRecord(0, models.Record{User: "A"}))
	require.NoError(t, ws.DeleteRecord(2))
	ws.Clean()

	assert.Equal(t, uint64(6), ws.Version())

	_ = ws.DeleteRecord(10)
	assert.Equal(t, uint64(6), ws.Version())
}

func TestWorkingSet_ConcurrentAccess(t *testing.T) {
	ws := newWorkingSet()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ws.AddRecord(models.Record{User: "u"})
		}()
		go func() {
			defer wg.Done()
			_ = ws.Records()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, ws.Len())
}
