package audio

import "math"

// LevelWindow is how many recent samples feed one reading.
const LevelWindow = 2048

// Levels reduces a block of stereo samples to a balance in [-1, 1] (right
// louder is positive) and a loudness in [0, 1]. Loudness is the RMS of the
// mono mix, compressed so quiet passages still move the scene.
func Levels(samples [][2]float64) (balance, level float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var left, right float64
	for _, s := range samples {
		left += s[0] * s[0]
		right += s[1] * s[1]
	}
	n := float64(len(samples))
	rmsL, rmsR := math.Sqrt(left/n), math.Sqrt(right/n)
	if sum := rmsL + rmsR; sum > 0 {
		balance = (rmsR - rmsL) / sum
	}
	rms := math.Sqrt((left + right) / (2 * n))
	level = math.Min(1, math.Pow(rms, 0.3))
	return balance, level
}

// Meter smooths successive Levels readings.
type Meter struct {
	Smoothing float64 // weight of the previous reading, in [0, 1)

	balance, level float64
}

func (m *Meter) Update(samples [][2]float64) (balance, level float64) {
	b, l := Levels(samples)
	m.balance = m.Smoothing*m.balance + (1-m.Smoothing)*b
	m.level = m.Smoothing*m.level + (1-m.Smoothing)*l
	return m.balance, m.level
}

func (m *Meter) Reset() { m.balance, m.level = 0, 0 }
