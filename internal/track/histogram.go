package track

import (
	"sort"
	"strconv"
	"time"
)

// Entry is one closed, valid cycle as consumed by the histogram:
// its start instant and its duration in seconds. Callers are expected to
// have filtered out open, invalid and inactive cycles already.
type Entry struct {
	Start   time.Time
	Seconds int64
}

// PlotData is a bucketed series with its axis labels.
type PlotData struct {
	Series []int64  `json:"series"`
	XAxis  []string `json:"xaxis"`
}

// SectionInfo carries the scalar totals next to a plot.
type SectionInfo struct {
	CurrentValue int64 `json:"current_value"`
	LastValue    int64 `json:"last_value"`
}

// Section is one granularity of the histogram report.
type Section struct {
	PlotData       PlotData    `json:"plot_data"`
	AdditionalInfo SectionInfo `json:"additional_info"`
}

// Histogram is the full week/month/year report.
type Histogram struct {
	Week  Section `json:"week"`
	Month Section `json:"month"`
	Year  Section `json:"year"`
}

// Offsets used to locate the "last" period of each granularity.
// Month and year use fixed day counts rather than calendar arithmetic.
const (
	lastWeekOffset  = 7 * 24 * time.Hour
	lastMonthOffset = 30 * 24 * time.Hour
	lastYearOffset  = 360 * 24 * time.Hour
)

// BuildHistogram buckets the entries into week, month and year sections
// relative to the reference date. The week and month plots bucket by
// calendar day, the year plot by month number within the reference year.
// Each section's last_value is the total of the period containing the
// fixed-offset date (reference minus 7, 30 or 360 days respectively).
// Totals are 0 when a period holds no entries.
func BuildHistogram(entries []Entry, reference time.Time) Histogram {
	return Histogram{
		Week:  buildSection(entries, reference, sameISOWeek, lastWeekOffset, dayKey),
		Month: buildSection(entries, reference, sameMonth, lastMonthOffset, dayKey),
		Year:  buildSection(entries, reference, sameYear, lastYearOffset, monthKey),
	}
}

// periodFunc reports whether t falls in ref's period of one granularity.
type periodFunc func(t, ref time.Time) bool

// bucketFunc derives a plot bucket key from an entry's start.
type bucketFunc func(t time.Time) string

func buildSection(entries []Entry, ref time.Time, inPeriod periodFunc, lastOffset time.Duration, bucket bucketFunc) Section {
	buckets := make(map[string]int64)
	var current, last int64
	lastRef := ref.Add(-lastOffset)

	for _, e := range entries {
		if inPeriod(e.Start, ref) {
			buckets[bucket(e.Start)] += e.Seconds
			current += e.Seconds
		}
		if inPeriod(e.Start, lastRef) {
			last += e.Seconds
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessBucket(keys[i], keys[j]) })

	plot := PlotData{
		Series: make([]int64, 0, len(keys)),
		XAxis:  keys,
	}
	for _, k := range keys {
		plot.Series = append(plot.Series, buckets[k])
	}

	return Section{
		PlotData:       plot,
		AdditionalInfo: SectionInfo{CurrentValue: current, LastValue: last},
	}
}

func sameISOWeek(t, ref time.Time) bool {
	ty, tw := t.ISOWeek()
	ry, rw := ref.ISOWeek()
	return ty == ry && tw == rw
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

func sameYear(t, ref time.Time) bool {
	return t.Year() == ref.Year()
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return strconv.Itoa(int(t.Month()))
}

// lessBucket orders day keys lexically and month keys numerically so the
// year plot runs 1..12 rather than "1", "10", "11".
func lessBucket(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
