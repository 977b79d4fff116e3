package models

// Record is one row of a vehicle-activity log. All fields are kept as
// free-form strings; Timestamp is stored verbatim when it does not parse.
type Record struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	VRID      string `json:"vrid"`
	SCAC      string `json:"scac"`
	Tractor   string `json:"traktor"`
	Trailer   string `json:"trailer"`
}

// RecordKey identifies a record for comparison between collections.
type RecordKey struct {
	Timestamp string
	User      string
	VRID      string
}

func (r Record) Key() RecordKey {
	return RecordKey{Timestamp: r.Timestamp, User: r.User, VRID: r.VRID}
}

// Values returns the fields in column order.
func (r Record) Values() []string {
	return []string{r.Timestamp, r.User, r.VRID, r.SCAC, r.Tractor, r.Trailer}
}

// CloneRecords returns an independent copy of records. A nil slice stays nil.
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
