package calibration

import (
	"fmt"
)

// Data types the calibration workload distinguishes.
const (
	DataTypeInt    = "int"
	DataTypeFloat  = "float"
	DataTypeString = "string"
)

// Segment encoding hints carried through to the cost model.
const (
	EncodingUnencoded        = "Unencoded"
	EncodingDictionary       = "Dictionary"
	EncodingRunLength        = "RunLength"
	EncodingFrameOfReference = "FrameOfReference"
	EncodingLZ4              = "LZ4"
)

// PredicateConfiguration describes one point of the calibration grid: which
// table to scan, the column data type and up to three encoding hints the
// predicate should touch, the selectivity to aim for, whether the scan input
// is a reference column, and the table's row count.
type PredicateConfiguration struct {
	TableName       string
	DataType        string
	FirstEncoding   string
	SecondEncoding  string // optional, "" when unset
	ThirdEncoding   string // optional, "" when unset
	Selectivity     float64
	ReferenceColumn bool
	RowCount        int64
}

// String renders the configuration so failed test cases read well.
func (c PredicateConfiguration) String() string {
	second := c.SecondEncoding
	if second == "" {
		second = "{}"
	}
	third := c.ThirdEncoding
	if third == "" {
		third = "{}"
	}
	return fmt.Sprintf("PredicateConfiguration(%s - %v - %s - %s - %s - %s - %v - %d)",
		c.TableName, c.Selectivity, c.FirstEncoding, second, third, c.DataType, c.ReferenceColumn, c.RowCount)
}

// ColumnSpecification describes one calibration table column.
type ColumnSpecification struct {
	Name           string
	DataType       string
	Encoding       string
	DistinctValues int64
}

// Configuration is the calibration-wide generator configuration.
type Configuration struct {
	DataTypes     []string
	Encodings     []string
	Selectivities []float64
}

// TableSpecification names a calibration table and its row count.
type TableSpecification struct {
	Name     string
	RowCount int64
}

// PredicatePermutations expands tables against the configuration into the
// full calibration grid, once per reference-column flag.
func PredicatePermutations(tables []TableSpecification, conf Configuration) []PredicateConfiguration {
	permutations := make([]PredicateConfiguration, 0,
		len(tables)*len(conf.DataTypes)*len(conf.Encodings)*len(conf.Selectivities)*2)

	for _, table := range tables {
		for _, dataType := range conf.DataTypes {
			for _, encoding := range conf.Encodings {
				for _, selectivity := range conf.Selectivities {
					for _, reference := range []bool{false, true} {
						permutations = append(permutations, PredicateConfiguration{
							TableName:       table.Name,
							DataType:        dataType,
							FirstEncoding:   encoding,
							Selectivity:     selectivity,
							ReferenceColumn: reference,
							RowCount:        table.RowCount,
						})
					}
				}
			}
		}
	}
	return permutations
}
