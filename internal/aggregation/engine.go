package aggregation

import (
	"sort"
	"time"

	"github.com/healthyduck/fitnessapi/internal/datapoint"
)

// DefaultDataType is the metric the daily aggregation serves when the
// caller names none.
const DefaultDataType = "com.ultimatequack.step_count.delta"

// Reduction folds the numeric values of one bucket into a single number.
type Reduction string

const (
	ReductionSum Reduction = "sum"
	ReductionAvg Reduction = "average"
	ReductionMin Reduction = "min"
	ReductionMax Reduction = "max"
)

// Metric names one data type to aggregate, with an optional per-metric
// reduction. An empty reduction means sum.
type Metric struct {
	DataTypeName string    `json:"dataTypeName"`
	DataSourceID string    `json:"dataSourceId,omitempty"`
	Reduction    Reduction `json:"reduction,omitempty"`
}

// BucketPoint is one aggregated metric value inside a bucket.
type BucketPoint struct {
	DataTypeName   string            `json:"dataTypeName"`
	StartTimeNanos int64             `json:"startTimeNanos"`
	EndTimeNanos   int64             `json:"endTimeNanos"`
	Value          []datapoint.Value `json:"value"`
}

// Dataset groups the aggregated points of one bucket.
type Dataset struct {
	Point []BucketPoint `json:"point"`
}

// Bucket is one fixed-duration aggregation window.
type Bucket struct {
	StartTimeMillis int64     `json:"startTimeMillis"`
	EndTimeMillis   int64     `json:"endTimeMillis"`
	Dataset         []Dataset `json:"dataset"`
}

// DailyAggregate is one calendar-day bucket of the daily endpoint.
type DailyAggregate struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// BucketByDuration groups points into fixed windows of durationMillis,
// aligned to the epoch, and folds each requested metric per window.
// Only windows with at least one point are emitted, ascending by start.
func BucketByDuration(records []datapoint.Record, durationMillis int64, metrics []Metric) []Bucket {
	if durationMillis <= 0 {
		return []Bucket{}
	}

	grouped := make(map[int64][]datapoint.Record)
	for _, rec := range records {
		startMillis := rec.StartTimeNanos / int64(time.Millisecond)
		bucketStart := floorToWindow(startMillis, durationMillis)
		grouped[bucketStart] = append(grouped[bucketStart], rec)
	}

	starts := make([]int64, 0, len(grouped))
	for start := range grouped {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	buckets := make([]Bucket, 0, len(starts))
	for _, bucketStart := range starts {
		bucketEnd := bucketStart + durationMillis
		points := make([]BucketPoint, 0, len(metrics))
		for _, metric := range metrics {
			value := reduce(grouped[bucketStart], metric.DataTypeName, metric.Reduction)
			points = append(points, BucketPoint{
				DataTypeName:   metric.DataTypeName,
				StartTimeNanos: bucketStart * int64(time.Millisecond),
				EndTimeNanos:   bucketEnd * int64(time.Millisecond),
				Value:          []datapoint.Value{{FpVal: &value}},
			})
		}
		buckets = append(buckets, Bucket{
			StartTimeMillis: bucketStart,
			EndTimeMillis:   bucketEnd,
			Dataset:         []Dataset{{Point: points}},
		})
	}

	return buckets
}

// floorToWindow rounds millis down to the nearest multiple of width.
// Integer division truncates toward zero, which rounds negative
// timestamps up, so the remainder is adjusted for pre-epoch points.
func floorToWindow(millis, width int64) int64 {
	rem := millis % width
	if rem < 0 {
		rem += width
	}
	return millis - rem
}

func reduce(records []datapoint.Record, dataTypeName string, reduction Reduction) float64 {
	var (
		sum      float64
		min, max float64
		count    int
	)
	for _, rec := range records {
		if rec.DataTypeName != dataTypeName {
			continue
		}
		for _, value := range rec.WireValue() {
			num, ok := value.Numeric()
			if !ok {
				continue
			}
			if count == 0 || num < min {
				min = num
			}
			if count == 0 || num > max {
				max = num
			}
			sum += num
			count++
		}
	}

	switch reduction {
	case ReductionAvg:
		if count == 0 {
			return 0
		}
		return sum / float64(count)
	case ReductionMin:
		return min
	case ReductionMax:
		return max
	default:
		return sum
	}
}

// AggregateDaily folds points into exactly days calendar-day buckets
// ending at now, keyed by UTC date, oldest first. Days with no data
// keep a zero value. Values outside the seeded window are dropped.
func AggregateDaily(records []datapoint.Record, days int, now time.Time) []DailyAggregate {
	byDay := make(map[string]*DailyAggregate, days)
	order := make([]string, 0, days)
	for i := 0; i < days; i++ {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		byDay[day] = &DailyAggregate{Date: day}
		order = append(order, day)
	}

	for _, rec := range records {
		startMillis := rec.StartTimeNanos / int64(time.Millisecond)
		day := time.UnixMilli(startMillis).UTC().Format("2006-01-02")
		agg, ok := byDay[day]
		if !ok {
			continue
		}
		for _, value := range rec.WireValue() {
			if num, ok := value.Numeric(); ok {
				agg.Value += num
			}
			agg.Count++
		}
	}

	// newest day was seeded first, callers want oldest first
	aggregates := make([]DailyAggregate, 0, days)
	for i := len(order) - 1; i >= 0; i-- {
		aggregates = append(aggregates, *byDay[order[i]])
	}
	return aggregates
}
