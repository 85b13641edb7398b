// Package debug samples runtime statistics for the run reports.
package debug

import (
	"fmt"
	"runtime"
	"time"
)

// Stats is one runtime sample.
type Stats struct {
	Alloc      uint64
	TotalAlloc uint64
	Sys        uint64
	NumGC      uint32
	Goroutines int
}

// Sample reads the current runtime statistics.
func Sample() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}

func mib(b uint64) float64 { return float64(b) / (1024 * 1024) }

// MemLine formats the heap in use and the memory obtained from the OS.
func (s Stats) MemLine() string {
	return fmt.Sprintf("Mem: %.2f MiB (sys %.2f MiB, %d GC)", mib(s.Alloc), mib(s.Sys), s.NumGC)
}

// Meter tracks the peak heap across samples taken between Start and Stop.
type Meter struct {
	interval time.Duration
	peak     uint64
	stop     chan struct{}
	done     chan struct{}
}

// NewMeter returns a meter sampling every interval; zero means 100ms.
func NewMeter(interval time.Duration) *Meter {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Meter{interval: interval}
}

// Start begins sampling in the background.
func (m *Meter) Start() {
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	m.observe(Sample())
	go func() {
		defer close(m.done)
		t := time.NewTicker(m.interval)
		defer t.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-t.C:
				m.observe(Sample())
			}
		}
	}()
}

// Stop ends sampling and returns the peak heap in bytes.
func (m *Meter) Stop() uint64 {
	if m.stop != nil {
		close(m.stop)
		<-m.done
		m.stop = nil
	}
	m.observe(Sample())
	return m.peak
}

// observe is only called from Start, the sampler goroutine and Stop after the
// sampler has exited, so peak needs no lock.
func (m *Meter) observe(s Stats) {
	if s.Alloc > m.peak {
		m.peak = s.Alloc
	}
}

// PeakLine formats a peak heap value.
func PeakLine(peak uint64) string {
	return fmt.Sprintf("Peak heap: %.2f MiB", mib(peak))
}
