package synth

import (
	"math"
	"testing"
	"time"
)

var testBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCPUUsageSumsToHundred(t *testing.T) {
	gen := NewCPUGenerator(42, testBase)

	for i := 0; i < 200; i++ {
		ts := testBase.Add(time.Duration(i) * time.Minute)
		f := gen.Generate(ts)

		sum := f.UsageUser + f.UsageSystem + f.UsageIdle + f.UsageNice +
			f.UsageIOWait + f.UsageIRQ + f.UsageSoftIRQ + f.UsageSteal +
			f.UsageGuest + f.UsageGuestNice

		// Per-field rounding to two decimals shifts the total by at most
		// 0.05. When idle clamps at zero the non-idle categories may
		// legitimately exceed 100.
		if f.UsageIdle > 0 && math.Abs(sum-100.0) > 0.06 {
			t.Fatalf("call %d: usage sum = %f, want 100", i, sum)
		}
		if f.UsageIdle == 0 && sum < 100.0-0.06 {
			t.Fatalf("call %d: usage sum = %f with idle clamped, want >= 100", i, sum)
		}
	}
}

func TestCPUCategoryBounds(t *testing.T) {
	gen := NewCPUGenerator(7, testBase)

	for i := 0; i < 100; i++ {
		f := gen.Generate(testBase.Add(time.Duration(i) * time.Minute))

		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"usage_user", f.UsageUser, 5, 80},
			{"usage_system", f.UsageSystem, 2, 20},
			{"usage_iowait", f.UsageIOWait, 0, 10},
			{"usage_nice", f.UsageNice, 0, 5},
			{"usage_irq", f.UsageIRQ, 0, 2},
			{"usage_softirq", f.UsageSoftIRQ, 0, 2},
			{"usage_steal", f.UsageSteal, 0, 5},
			{"usage_guest", f.UsageGuest, 0, 5},
			{"usage_guest_nice", f.UsageGuestNice, 0, 2},
			{"usage_idle", f.UsageIdle, 0, 100},
			{"cpu_temperature", f.CPUTemperatureCelsius, 20, 85},
		}
		for _, c := range checks {
			if c.v < c.lo || c.v > c.hi {
				t.Errorf("call %d: %s = %f, want in [%f, %f]", i, c.name, c.v, c.lo, c.hi)
			}
		}

		if len(f.UtilizationPerCore) != f.CPUCount {
			t.Errorf("call %d: per-core array length %d, want %d", i, len(f.UtilizationPerCore), f.CPUCount)
		}
		for _, u := range f.UtilizationPerCore {
			if u < 0 || u > 100 {
				t.Errorf("call %d: per-core utilization %f out of [0, 100]", i, u)
			}
		}
	}
}

func TestMemInvariants(t *testing.T) {
	gen := NewMemGenerator(13, testBase)

	for i := 0; i < 100; i++ {
		f := gen.Generate(testBase.Add(time.Duration(i) * time.Hour))

		if f.Available != f.Total-f.Used {
			t.Errorf("call %d: available = %d, want total-used = %d", i, f.Available, f.Total-f.Used)
		}
		if f.Available < 0 {
			t.Errorf("call %d: negative available %d", i, f.Available)
		}
		if f.UsedPercent < 0 || f.UsedPercent > 100 {
			t.Errorf("call %d: used_percent %f out of [0, 100]", i, f.UsedPercent)
		}
		if f.Free < 0 {
			t.Errorf("call %d: negative free %d", i, f.Free)
		}
	}
}

func TestMemTotalFixedPerHost(t *testing.T) {
	gen := NewMemGenerator(99, testBase)
	first := gen.Generate(testBase).Total
	for i := 1; i < 20; i++ {
		if got := gen.Generate(testBase.Add(time.Duration(i) * time.Hour)).Total; got != first {
			t.Fatalf("call %d: total changed from %d to %d", i, first, got)
		}
	}
}

func TestDeterminismAcrossInstances(t *testing.T) {
	hostID := 1234

	timestamps := make([]time.Time, 50)
	for i := range timestamps {
		timestamps[i] = testBase.Add(time.Duration(i) * time.Minute)
	}

	a := NewCPUGenerator(hostID, testBase)
	b := NewCPUGenerator(hostID, testBase)
	for i, ts := range timestamps {
		fa, fb := a.Generate(ts), b.Generate(ts)
		if fa.UsageUser != fb.UsageUser || fa.CPUCount != fb.CPUCount || fa.LoadAverage1m != fb.LoadAverage1m {
			t.Fatalf("cpu call %d: instances diverged: %+v vs %+v", i, fa, fb)
		}
	}

	ma, mb := NewMemGenerator(hostID, testBase), NewMemGenerator(hostID, testBase)
	for i, ts := range timestamps {
		fa, fb := ma.Generate(ts), mb.Generate(ts)
		if fa != fb {
			t.Fatalf("mem call %d: instances diverged: %+v vs %+v", i, fa, fb)
		}
	}

	na, nb := NewNetGenerator(hostID, testBase), NewNetGenerator(hostID, testBase)
	for i, ts := range timestamps {
		fa, fb := na.Generate(ts), nb.Generate(ts)
		if fa != fb {
			t.Fatalf("net call %d: instances diverged: %+v vs %+v", i, fa, fb)
		}
	}
}

func TestDeterminismDifferentHostsDiffer(t *testing.T) {
	a := NewCPUGenerator(1, testBase)
	b := NewCPUGenerator(2, testBase)

	same := true
	for i := 0; i < 10; i++ {
		ts := testBase.Add(time.Duration(i) * time.Minute)
		if a.Generate(ts).UsageUser != b.Generate(ts).UsageUser {
			same = false
			break
		}
	}
	if same {
		t.Error("different host ids produced identical cpu sequences")
	}
}

func TestNetCountersMonotonic(t *testing.T) {
	gen := NewNetGenerator(5, testBase)

	var prev NetFields
	for i := 0; i < 100; i++ {
		f := gen.Generate(testBase.Add(time.Duration(i) * time.Minute))
		if i > 0 {
			if f.BytesSent <= prev.BytesSent || f.BytesRecv <= prev.BytesRecv {
				t.Fatalf("call %d: byte counters not strictly increasing: %+v then %+v", i, prev, f)
			}
			if f.PacketsSent <= prev.PacketsSent || f.PacketsRecv <= prev.PacketsRecv {
				t.Fatalf("call %d: packet counters not strictly increasing", i)
			}
		}
		prev = f
	}
}

func TestDiskUsageGrowsWithDays(t *testing.T) {
	gen := NewDiskGenerator(5, testBase)

	early := gen.Generate(testBase)
	late := gen.Generate(testBase.AddDate(0, 6, 0)) // ~180 days later

	// 0.1%/day growth over ~180 days should clearly dominate the 5% noise.
	if late.UsedPercent <= early.UsedPercent {
		t.Errorf("disk usage did not grow: day 0 = %f, day 180 = %f", early.UsedPercent, late.UsedPercent)
	}
	if late.UsedPercent > 100 {
		t.Errorf("disk used_percent %f out of range", late.UsedPercent)
	}
	if early.Total != late.Total || early.InodesTotal != late.InodesTotal {
		t.Error("disk capacity changed between calls")
	}
}

func TestSeasonalShape(t *testing.T) {
	// Tuesday business hours vs. Tuesday night.
	tue := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	noon := Seasonal(tue.Add(12*time.Hour), 100, 0.3)
	night := Seasonal(tue.Add(3*time.Hour), 100, 0.3)
	if noon <= night {
		t.Errorf("expected business-hours peak: noon=%f night=%f", noon, night)
	}

	// Weekend factor.
	sat := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	weekday := Seasonal(tue.Add(12*time.Hour), 100, 0.3)
	weekend := Seasonal(sat, 100, 0.3)
	if math.Abs(weekend-weekday*weekendFactor) > 1e-9 {
		t.Errorf("weekend factor not applied: weekday=%f weekend=%f", weekday, weekend)
	}
}

func TestAddNoiseFloorsAtZero(t *testing.T) {
	s := NewStream(1)
	for i := 0; i < 1000; i++ {
		if v := s.AddNoise(0.001, 5.0); v < 0 {
			t.Fatalf("noise produced negative value %f", v)
		}
	}
}
