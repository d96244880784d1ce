package profile

// SchemaVersion tags every stored DatasetProfile. Bump it whenever the
// profiling rules change so historical reports stay interpretable.
const SchemaVersion = 1

// ColumnType is the inferred type of a column
type ColumnType string

const (
	TypeNumber ColumnType = "number"
	TypeString ColumnType = "string"
)

// Row maps a column name to a raw cell value (string or typed scalar)
type Row map[string]any

// ValueCount is one entry of a column's top values
type ValueCount struct {
	Value string `json:"value" bson:"value"`
	Count int    `json:"count" bson:"count"`
}

// Bounds is the closed IQR fence; values strictly outside are outliers
type Bounds struct {
	Lower float64 `json:"lower" bson:"lower"`
	Upper float64 `json:"upper" bson:"upper"`
}

// NumericStats is only present on number columns. Nil pointers mean the
// value could not be computed.
type NumericStats struct {
	Min           float64  `json:"min" bson:"min"`
	Max           float64  `json:"max" bson:"max"`
	Mean          float64  `json:"mean" bson:"mean"`
	Q1            *float64 `json:"q1" bson:"q1"`
	Median        *float64 `json:"median" bson:"median"`
	Q3            *float64 `json:"q3" bson:"q3"`
	IQR           *float64 `json:"iqr" bson:"iqr"`
	OutlierBounds *Bounds  `json:"outlierBounds" bson:"outlierBounds"`
	OutlierCount  *int     `json:"outlierCount" bson:"outlierCount"`
}

// ColumnProfile holds the descriptive statistics of a single column
type ColumnProfile struct {
	Name           string        `json:"name" bson:"name"`
	Type           ColumnType    `json:"type" bson:"type"`
	Missing        int           `json:"missing" bson:"missing"`
	MissingRate    float64       `json:"missingRate" bson:"missingRate"`
	DistinctApprox int           `json:"distinctApprox" bson:"distinctApprox"`
	TopValues      []ValueCount  `json:"topValues" bson:"topValues"`
	Stats          *NumericStats `json:"stats,omitempty" bson:"stats,omitempty"`
}

// DatasetProfile is computed once per uploaded file and never mutated
type DatasetProfile struct {
	SchemaVersion int             `json:"schemaVersion" bson:"schemaVersion"`
	RowCount      int             `json:"rowCount" bson:"rowCount"`
	ColumnCount   int             `json:"columnCount" bson:"columnCount"`
	Headers       []string        `json:"headers" bson:"headers"`
	Columns       []ColumnProfile `json:"columns" bson:"columns"`
}

// Column returns the profile of the named column
func (p *DatasetProfile) Column(name string) (*ColumnProfile, bool) {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i], true
		}
	}
	return nil, false
}
