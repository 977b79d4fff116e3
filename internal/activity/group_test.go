package activity

import (
	"testing"
	"vehlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroupedViews_SamePairDifferentTrailers(t *testing.T) {
	views := BuildGroupedViews([]models.Record{
		{Timestamp: "2024-01-01 10:00:00", User: "alice", Trailer: "TL1"},
		{Timestamp: "2024-01-01 10:00:00", User: "alice", Trailer: "TL2"},
	})

	require.Len(t, views.Activity, 1)
	assert.ElementsMatch(t, []string{"TL1", "TL2"}, views.Activity[0].Trailers)
	require.Len(t, views.VridScac, 1)
}

func TestBuildGroupedViews_SetSemantics(t *testing.T) {
	views := BuildGroupedViews([]models.Record{
		{Timestamp: "t1", User: "alice", VRID: "V1", SCAC: "ACME", Tractor: "tr1", Trailer: "vsacme"},
		{Timestamp: "t1", User: "alice", VRID: "V1", SCAC: "ACME", Tractor: "TR1 ", Trailer: "VSACME"},
		{Timestamp: "t1", User: "alice", VRID: "V2", SCAC: "", Tractor: "Tr1", Trailer: ""},
	})

	require.Len(t, views.Activity, 1)
	assert.Equal(t, []string{"TR1"}, views.Activity[0].Tractors)
	assert.Equal(t, []string{"VSACME"}, views.Activity[0].Trailers)

	v := views.VridScac[0]
	assert.Equal(t, []string{"V1", "V2"}, v.VRIDs)
	assert.Equal(t, []string{"ACME"}, v.SCACs, "implicit SCAC collapses with explicit one")
	assert.Equal(t, []string{"TR1"}, v.Tractors)
}

func TestBuildGroupedViews_ImplicitScac(t *testing.T) {
	views := BuildGroupedViews([]models.Record{
		{Timestamp: "t1", User: "bob", SCAC: "XYZ", Trailer: "VSACME"},
	})
	assert.Equal(t, []string{"XYZ", "ACME"}, views.VridScac[0].SCACs)
	assert.Empty(t, views.VridScac[0].VRIDs)
}

func TestBuildGroupedViews_SkipsMissingKey(t *testing.T) {
	views := BuildGroupedViews([]models.Record{
		{Timestamp: "", User: "alice", Tractor: "T1"},
		{Timestamp: "t1", User: " ", Tractor: "T2"},
		{Timestamp: "t1", User: "bob", Tractor: "T3"},
	})
	require.Len(t, views.Activity, 1)
	assert.Equal(t, "bob", views.Activity[0].User)
}

func TestBuildGroupedViews_KeysAreUnique(t *testing.T) {
	records := randomRecords(300, 7)
	// values that would collide under a naive "ts_user" join
	records = append(records,
		models.Record{Timestamp: "a_b", User: "c", Tractor: "X"},
		models.Record{Timestamp: "a", User: "b_c", Tractor: "Y"},
	)
	views := BuildGroupedViews(records)

	seen := make(map[[2]string]bool)
	for _, g := range views.Activity {
		key := [2]string{g.Timestamp, g.User}
		assert.False(t, seen[key], "duplicate key %v", key)
		seen[key] = true
	}
	assert.True(t, seen[[2]string{"a_b", "c"}])
	assert.True(t, seen[[2]string{"a", "b_c"}])
	assert.Len(t, views.VridScac, len(views.Activity))
}

func TestGroupedViews_Rows(t *testing.T) {
	views := BuildGroupedViews([]models.Record{
		{Timestamp: "t1", User: "alice", VRID: "V1", Tractor: "A", Trailer: "B"},
		{Timestamp: "t1", User: "alice", VRID: "V2", Tractor: "C", Trailer: "B"},
	})
	rows := views.Rows()
	require.Len(t, rows.Activity, 1)
	assert.Equal(t, "A\nC", rows.Activity[0].Tractor)
	assert.Equal(t, "B", rows.Activity[0].Trailer)
	assert.Equal(t, "V1\nV2", rows.VridScac[0].VRID)
}
