package audio

import "math"

// Gain scales the clip by gainDB decibels in place.
func Gain(c *Clip, gainDB float64) {
	factor := math.Pow(10, gainDB/20)
	for i, s := range c.Samples {
		c.Samples[i] = clamp(s*factor, -1, 1)
	}
}

// Normalize scales the clip so its peak sits at targetDB dBFS. A silent
// clip is left untouched.
func Normalize(c *Clip, targetDB float64) {
	var peak float64
	for _, s := range c.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	target := math.Pow(10, targetDB/20)
	factor := target / peak
	for i, s := range c.Samples {
		c.Samples[i] = clamp(s*factor, -1, 1)
	}
}

// Compress applies downward compression in place. The frame peak drives a
// single gain-reduction envelope with separate attack and release times, so
// channels stay level-matched.
func Compress(c *Clip, thresholdDB, ratio, attackMS, releaseMS, makeupDB float64) {
	if ratio < 1 {
		ratio = 1
	}
	attack := math.Max(1, attackMS*float64(c.SampleRate)/1000)
	release := math.Max(1, releaseMS*float64(c.SampleRate)/1000)
	makeup := math.Pow(10, makeupDB/20)

	var envelope float64 // gain reduction in dB, always <= 0
	for i := 0; i < len(c.Samples); i += c.Channels {
		var peak float64
		for ch := 0; ch < c.Channels && i+ch < len(c.Samples); ch++ {
			if a := math.Abs(c.Samples[i+ch]); a > peak {
				peak = a
			}
		}
		levelDB := 20 * math.Log10(peak+1e-10)
		reduction := math.Min(0, (thresholdDB-levelDB)*(1-1/ratio))
		if reduction < envelope {
			envelope += (reduction - envelope) / attack
		} else {
			envelope += (reduction - envelope) / release
		}
		g := math.Pow(10, envelope/20) * makeup
		for ch := 0; ch < c.Channels && i+ch < len(c.Samples); ch++ {
			c.Samples[i+ch] = clamp(c.Samples[i+ch]*g, -1, 1)
		}
	}
}

// Delay mixes a feedback delay line into the clip in place. delayMS longer
// than the clip leaves only the dry signal scaled by the mix.
func Delay(c *Clip, delayMS, feedback, mix float64) {
	size := int(delayMS * float64(c.SampleRate) / 1000)
	if size <= 0 {
		return
	}
	buf := make([]float64, size*c.Channels)
	pos := 0
	for i := 0; i < len(c.Samples); i += c.Channels {
		for ch := 0; ch < c.Channels && i+ch < len(c.Samples); ch++ {
			dry := c.Samples[i+ch]
			delayed := buf[pos*c.Channels+ch]
			buf[pos*c.Channels+ch] = dry + delayed*feedback
			c.Samples[i+ch] = clamp(dry*(1-mix)+delayed*mix, -1, 1)
		}
		pos = (pos + 1) % size
	}
}

// LowPass applies a biquad low-pass filter in place, per channel.
func LowPass(c *Clip, cutoff, resonance float64) {
	if cutoff <= 0 || cutoff >= float64(c.SampleRate)/2 {
		return
	}
	if resonance <= 0 {
		resonance = 0.707
	}

	// RBJ cookbook low-pass coefficients.
	w0 := 2 * math.Pi * cutoff / float64(c.SampleRate)
	alpha := math.Sin(w0) / (2 * resonance)
	cosw0 := math.Cos(w0)

	a0 := 1 + alpha
	b0 := (1 - cosw0) / 2 / a0
	b1 := (1 - cosw0) / a0
	b2 := (1 - cosw0) / 2 / a0
	a1 := -2 * cosw0 / a0
	a2 := (1 - alpha) / a0

	for ch := 0; ch < c.Channels; ch++ {
		var x1, x2, y1, y2 float64
		for i := ch; i < len(c.Samples); i += c.Channels {
			x := c.Samples[i]
			y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
			x2, x1 = x1, x
			y2, y1 = y1, y
			c.Samples[i] = clamp(y, -1, 1)
		}
	}
}
