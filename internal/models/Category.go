package models

type Category string

const (
	CategoryIB    Category = "IB"
	CategoryOB    Category = "OB"
	CategoryATSEU Category = "ATSEU"
	CategoryOther Category = "OTHER"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryIB, CategoryOB, CategoryATSEU, CategoryOther}

// CategorizedBuckets holds the four disjoint category buckets of a record
// collection. Order inside a bucket follows the source collection.
type CategorizedBuckets struct {
	IB    []Record `json:"ib"`
	OB    []Record `json:"ob"`
	ATSEU []Record `json:"atseu"`
	Other []Record `json:"other"`
}

func (b *CategorizedBuckets) Get(c Category) []Record {
	switch c {
	case CategoryIB:
		return b.IB
	case CategoryOB:
		return b.OB
	case CategoryATSEU:
		return b.ATSEU
	case CategoryOther:
		return b.Other
	}
	return nil
}

func (b *CategorizedBuckets) Add(c Category, r Record) {
	switch c {
	case CategoryIB:
		b.IB = append(b.IB, r)
	case CategoryOB:
		b.OB = append(b.OB, r)
	case CategoryATSEU:
		b.ATSEU = append(b.ATSEU, r)
	default:
		b.Other = append(b.Other, r)
	}
}

func (b *CategorizedBuckets) Len() int {
	return len(b.IB) + len(b.OB) + len(b.ATSEU) + len(b.Other)
}

func (b *CategorizedBuckets) Counts() map[Category]int {
	return map[Category]int{
		CategoryIB:    len(b.IB),
		CategoryOB:    len(b.OB),
		CategoryATSEU: len(b.ATSEU),
		CategoryOther: len(b.Other),
	}
}

func (b *CategorizedBuckets) Clone() *CategorizedBuckets {
	if b == nil {
		return nil
	}
	return &CategorizedBuckets{
		IB:    CloneRecords(b.IB),
		OB:    CloneRecords(b.OB),
		ATSEU: CloneRecords(b.ATSEU),
		Other: CloneRecords(b.Other),
	}
}
