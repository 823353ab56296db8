package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Countdown renders the cosmetic install countdown: one bar unit per tick
type Countdown struct {
	bar   *progressbar.ProgressBar
	units int
	tick  time.Duration
}

// NewCountdown creates a countdown of units ticks written to w
func NewCountdown(w io.Writer, units int, tick time.Duration, description string) *Countdown {
	bar := progressbar.NewOptions(units,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &Countdown{bar: bar, units: units, tick: tick}
}

// Run blocks until every unit has elapsed
func (c *Countdown) Run() error {
	for i := 0; i < c.units; i++ {
		time.Sleep(c.tick)
		if err := c.bar.Add(1); err != nil {
			return err
		}
	}
	return c.bar.Finish()
}

// IsFinished returns true if the countdown completed
func (c *Countdown) IsFinished() bool {
	return c.bar.IsFinished()
}
