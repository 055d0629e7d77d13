package source

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress receives download progress. total is 0 when the size is unknown.
type Progress interface {
	Start(desc string, total int64)
	Add(n int)
	Done()
}

// NopProgress discards all progress updates.
type NopProgress struct{}

func (NopProgress) Start(string, int64) {}
func (NopProgress) Add(int)             {}
func (NopProgress) Done()               {}

const barRefresh = 65 * time.Millisecond

// Bar renders a byte progress bar to a terminal. An unknown total shows a spinner.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBar creates a bar writing to w (usually os.Stderr).
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

func (b *Bar) Start(desc string, total int64) {
	if total <= 0 {
		total = -1
	}

	b.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(barRefresh),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(b.w, "\n")
		}),
	)
}

func (b *Bar) Add(n int) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Add(n)
}

func (b *Bar) Done() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	b.bar = nil
}
