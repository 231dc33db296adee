package datapoint

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const nanosPerMilli = int64(time.Millisecond)

var (
	ErrInvalidTime  = errors.New("invalid time value")
	ErrAmbiguousTag = errors.New("more than one value variant set")
)

// Value is the wire value variant of a data point. Exactly one of the
// fields is set; the storage row keeps one nullable column per variant.
type Value struct {
	IntVal    *int64                 `json:"intVal,omitempty"`
	FpVal     *float64               `json:"fpVal,omitempty"`
	StringVal *string                `json:"stringVal,omitempty"`
	MapVal    map[string]interface{} `json:"mapVal,omitempty"`
}

// Numeric reports the value as a float64 for aggregation, treating the
// integer and float variants uniformly. Non-numeric variants count as 0.
func (v Value) Numeric() (float64, bool) {
	switch {
	case v.FpVal != nil:
		return *v.FpVal, true
	case v.IntVal != nil:
		return float64(*v.IntVal), true
	default:
		return 0, false
	}
}

// DataPoint is the wire representation of one fitness sample. Its time
// bounds are nanosecond precision decimal strings.
type DataPoint struct {
	StartTimeNanos     string  `json:"startTimeNanos"`
	EndTimeNanos       string  `json:"endTimeNanos"`
	DataTypeName       string  `json:"dataTypeName"`
	ModifiedTimeMillis string  `json:"modifiedTimeMillis,omitempty"`
	Value              []Value `json:"value"`
	OriginDataSourceID string  `json:"originDataSourceId,omitempty"`
}

// Record is the storage row shape of one data point.
type Record struct {
	UserID             string
	DataSourceID       int
	DataTypeName       string
	StartTimeNanos     int64
	EndTimeNanos       int64
	ModifiedTimeNanos  int64
	IntVal             *int64
	FpVal              *float64
	StringVal          *string
	MapVal             map[string]interface{}
	OriginDataSourceID *string
}

// Value reconstructs the wire value variant from the nullable storage
// columns. An all-null row yields an empty value list.
func (r *Record) WireValue() []Value {
	switch {
	case r.IntVal != nil:
		return []Value{{IntVal: r.IntVal}}
	case r.FpVal != nil:
		return []Value{{FpVal: r.FpVal}}
	case r.StringVal != nil:
		return []Value{{StringVal: r.StringVal}}
	case r.MapVal != nil:
		return []Value{{MapVal: r.MapVal}}
	default:
		return []Value{}
	}
}

// ToWire translates a storage row to the wire shape.
func (r *Record) ToWire() DataPoint {
	p := DataPoint{
		StartTimeNanos:     strconv.FormatInt(r.StartTimeNanos, 10),
		EndTimeNanos:       strconv.FormatInt(r.EndTimeNanos, 10),
		DataTypeName:       r.DataTypeName,
		ModifiedTimeMillis: strconv.FormatInt(r.ModifiedTimeNanos/nanosPerMilli, 10),
		Value:              r.WireValue(),
	}
	if r.OriginDataSourceID != nil {
		p.OriginDataSourceID = *r.OriginDataSourceID
	}
	return p
}

// ToRecord translates the wire shape to a storage row owned by userID,
// referencing the resolved data source row id. An empty or missing
// modifiedTimeMillis defaults to now.
func (p *DataPoint) ToRecord(userID string, dataSourceID int, now time.Time) (*Record, error) {
	startNanos, err := parseTime(p.StartTimeNanos, "startTimeNanos")
	if err != nil {
		return nil, err
	}
	endNanos, err := parseTime(p.EndTimeNanos, "endTimeNanos")
	if err != nil {
		return nil, err
	}
	if startNanos > endNanos {
		return nil, fmt.Errorf("%w: startTimeNanos after endTimeNanos", ErrInvalidTime)
	}

	modifiedNanos := now.UnixMilli() * nanosPerMilli
	if p.ModifiedTimeMillis != "" {
		modifiedMillis, err := parseTime(p.ModifiedTimeMillis, "modifiedTimeMillis")
		if err != nil {
			return nil, err
		}
		modifiedNanos = modifiedMillis * nanosPerMilli
	}

	rec := &Record{
		UserID:            userID,
		DataSourceID:      dataSourceID,
		DataTypeName:      p.DataTypeName,
		StartTimeNanos:    startNanos,
		EndTimeNanos:      endNanos,
		ModifiedTimeNanos: modifiedNanos,
	}
	if p.OriginDataSourceID != "" {
		rec.OriginDataSourceID = &p.OriginDataSourceID
	}

	if len(p.Value) > 0 {
		value := p.Value[0]
		tags := 0
		if value.IntVal != nil {
			rec.IntVal = value.IntVal
			tags++
		}
		if value.FpVal != nil {
			rec.FpVal = value.FpVal
			tags++
		}
		if value.StringVal != nil {
			rec.StringVal = value.StringVal
			tags++
		}
		if value.MapVal != nil {
			rec.MapVal = value.MapVal
			tags++
		}
		if tags > 1 {
			return nil, ErrAmbiguousTag
		}
	}

	return rec, nil
}

func parseTime(value, field string) (int64, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTime, field)
	}
	return parsed, nil
}
