package debug

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSample(t *testing.T) {
	s := Sample()
	assert.NotZero(t, s.Alloc)
	assert.GreaterOrEqual(t, s.Sys, s.Alloc)
	assert.GreaterOrEqual(t, s.Goroutines, 1)
}

func TestMemLine(t *testing.T) {
	s := Stats{Alloc: 3 << 20, Sys: 8 << 20, NumGC: 4}
	assert.Equal(t, "Mem: 3.00 MiB (sys 8.00 MiB, 4 GC)", s.MemLine())
}

func TestMeter(t *testing.T) {
	m := NewMeter(time.Millisecond)
	m.Start()
	buf := make([]byte, 4<<20)
	buf[len(buf)-1] = 1
	time.Sleep(5 * time.Millisecond)
	peak := m.Stop()
	assert.GreaterOrEqual(t, peak, uint64(len(buf)))
	assert.Equal(t, byte(1), buf[len(buf)-1])
}

func TestMeterStopWithoutStart(t *testing.T) {
	assert.NotZero(t, NewMeter(0).Stop())
}

func TestPeakLine(t *testing.T) {
	assert.Equal(t, "Peak heap: 1.50 MiB", PeakLine(3<<19))
}
