// Package devices simulates the daily wearable metrics shown on the devices
// dashboard. No vendor is contacted; each sync appends one jittered day.
package devices

import "math"

const WindowDays = 7

// Day is one day of aggregated readings.
type Day struct {
	Steps     int     `json:"steps"`
	Heart     int     `json:"heart"`
	Sleep     float64 `json:"sleep"`
	Hydration float64 `json:"hydration"`
	Stress    int     `json:"stress"`
}

type Averages struct {
	Steps     float64 `json:"steps"`
	Heart     float64 `json:"heart"`
	Sleep     float64 `json:"sleep"`
	Hydration float64 `json:"hydration"`
	Stress    float64 `json:"stress"`
}

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Float64() float64
}

func DemoWeek() []Day {
	steps := []int{7200, 10340, 8300, 12500, 5600, 9100, 9800}
	heart := []int{72, 74, 70, 76, 73, 75, 71}
	sleep := []float64{6.8, 7.2, 6.5, 8.0, 7.0, 7.5, 6.9}
	hydration := []float64{1.5, 1.8, 2.0, 1.6, 1.4, 2.2, 1.9}
	stress := []int{3, 2, 4, 3, 5, 2, 3}

	days := make([]Day, WindowDays)
	for i := range days {
		days[i] = Day{Steps: steps[i], Heart: heart[i], Sleep: sleep[i], Hydration: hydration[i], Stress: stress[i]}
	}
	return days
}

// Next derives the following day from last.
func Next(last Day, r Rand) Day {
	return Day{
		Steps:     jitter(float64(last.Steps)+(r.Float64()*2000-1000), 0.2, r),
		Heart:     jitter(float64(last.Heart)+(r.Float64()*2-1), 0.05, r),
		Sleep:     clamp(round1(last.Sleep+(r.Float64()-0.5)), 5.5, 9),
		Hydration: clamp(round1(last.Hydration+(r.Float64()*0.6-0.3)), 1, 3),
		Stress:    int(clamp(math.Round(float64(last.Stress)+(r.Float64()*2-1)), 1, 5)),
	}
}

// Append slides the window forward by one synced day.
func Append(window []Day, r Rand) []Day {
	if len(window) == 0 {
		window = DemoWeek()
	}
	next := Next(window[len(window)-1], r)
	out := append(append([]Day{}, window...), next)
	if len(out) > WindowDays {
		out = out[len(out)-WindowDays:]
	}
	return out
}

func Average(window []Day) Averages {
	if len(window) == 0 {
		return Averages{}
	}
	var a Averages
	for _, d := range window {
		a.Steps += float64(d.Steps)
		a.Heart += float64(d.Heart)
		a.Sleep += d.Sleep
		a.Hydration += d.Hydration
		a.Stress += float64(d.Stress)
	}
	n := float64(len(window))
	return Averages{
		Steps:     round1(a.Steps / n),
		Heart:     round1(a.Heart / n),
		Sleep:     round1(a.Sleep / n),
		Hydration: round1(a.Hydration / n),
		Stress:    round1(a.Stress / n),
	}
}

func jitter(n, p float64, r Rand) int {
	return int(math.Max(0, math.Round(n*(1+(r.Float64()-0.5)*2*p))))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
