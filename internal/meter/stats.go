package meter

import (
	"math"
	"strconv"
	"time"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
)

// Stats keeps running moments of the emitted rates (Welford). It is owned by
// the meter's loop and read once the loop has stopped.
type Stats struct {
	count             uint64
	min, max, mean, s float64
	rates             []float64 // kept for percentiles; one entry per period
}

func (s *Stats) Add(val float64) {
	if s.count == 0 {
		s.min, s.max = val, val
	} else {
		if val < s.min {
			s.min = val
		}
		if val > s.max {
			s.max = val
		}
	}

	s.count++
	oldMean := s.mean
	s.mean += (val - oldMean) / float64(s.count)
	s.s += (val - oldMean) * (val - s.mean)
	s.rates = append(s.rates, val)
}

func (s *Stats) Reset() {
	s.count, s.min, s.max, s.mean, s.s = 0, 0, 0, 0, 0
	s.rates = s.rates[:0]
}

func (s *Stats) Min() float64  { return s.min }
func (s *Stats) Max() float64  { return s.max }
func (s *Stats) Count() uint64 { return s.count }
func (s *Stats) Mean() float64 { return s.mean }
func (s *Stats) Variance() float64 {
	if s.count > 1 {
		return s.s / float64(s.count-1)
	}
	return 0
}

var summaryPercentiles = []float64{50, 90, 99}

// Summary builds the run report. started is when the run began; the duration
// is measured up to now.
func (s *Stats) Summary(meterID, strategy string, skipped uint64, started time.Time) v1.Summary {
	ended := time.Now()
	sum := v1.Summary{
		MeterID:  meterID,
		Strategy: strategy,
		Duration: ended.Sub(started),
		Started:  &started,
		Ended:    &ended,
		Periods:  s.count,
		Skipped:  skipped,
	}
	if s.count == 0 {
		return sum
	}

	sum.Mean = s.mean
	sum.StdDev = math.Sqrt(s.Variance())
	min, max := s.min, s.max
	sum.Min, sum.Max = &min, &max
	if s.mean != 0 {
		cv := sum.StdDev / s.mean
		sum.CV = &cv
	}

	sum.Percentiles = make(map[string]float64, len(summaryPercentiles))
	for p, v := range CalculateMultiplePercentiles(s.rates, summaryPercentiles) {
		sum.Percentiles[percentileKey(p)] = v
	}
	return sum
}

// percentileKey formats 99.9 as "p99_9".
func percentileKey(p float64) string {
	whole := int(p)
	key := "p" + strconv.Itoa(whole)
	if frac := p - float64(whole); frac > 0 {
		key += "_" + strconv.Itoa(int(math.Round(frac*10)))
	}
	return key
}
