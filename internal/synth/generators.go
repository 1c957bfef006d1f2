package synth

import (
	"time"
)

const (
	gib = int64(1) << 30
	tib = int64(1) << 40
)

// CPUGenerator produces CPU samples. Stateless between calls: every
// sample is computed from the timestamp plus stream draws.
type CPUGenerator struct {
	s *Stream
}

// NewCPUGenerator creates a CPU generator for a host.
func NewCPUGenerator(hostID int, _ time.Time) *CPUGenerator {
	return &CPUGenerator{s: NewStream(int64(hostID))}
}

// Generate produces one CPU sample. The nine non-idle usage categories
// plus usage_idle sum to exactly 100 after the idle derivation.
func (g *CPUGenerator) Generate(ts time.Time) CPUFields {
	base := g.s.AddNoise(Seasonal(ts, 30.0, 0.3), 0.2)

	usageUser := clamp(base, 5.0, 80.0)
	usageSystem := clamp(base*0.3, 2.0, 20.0)
	usageIOWait := clamp(g.s.Uniform(0, 5), 0.0, 10.0)
	usageNice := clamp(g.s.Uniform(0, 2), 0.0, 5.0)
	usageIRQ := clamp(g.s.Uniform(0, 1), 0.0, 2.0)
	usageSoftIRQ := clamp(g.s.Uniform(0, 1), 0.0, 2.0)
	usageSteal := clamp(g.s.Uniform(0, 2), 0.0, 5.0)
	usageGuest := clamp(g.s.Uniform(0, 2), 0.0, 5.0)
	usageGuestNice := clamp(g.s.Uniform(0, 1), 0.0, 2.0)

	used := usageUser + usageSystem + usageIOWait + usageNice +
		usageIRQ + usageSoftIRQ + usageSteal + usageGuest + usageGuestNice
	usageIdle := 100.0 - used
	if usageIdle < 0 {
		usageIdle = 0
	}

	load1 := g.s.AddNoise(base/20.0, 0.3)
	load5 := g.s.AddNoise(load1*0.9, 0.2)
	load15 := g.s.AddNoise(load5*0.8, 0.1)

	cpuCount := Pick(g.s, []int{1, 2, 4, 8, 16})
	cpuFreq := g.s.Uniform(2000, 3500)
	cpuTemp := g.s.AddNoise(45.0, 0.3)

	contextSwitches := int64(g.s.AddNoise(50000, 0.5))
	interrupts := int64(g.s.AddNoise(10000, 0.4))

	perCore := make([]float64, cpuCount)
	for i := range perCore {
		perCore[i] = round2(clamp(g.s.AddNoise(base, 0.3), 0.0, 100.0))
	}

	return CPUFields{
		UsageUser:      round2(usageUser),
		UsageSystem:    round2(usageSystem),
		UsageIdle:      round2(usageIdle),
		UsageNice:      round2(usageNice),
		UsageIOWait:    round2(usageIOWait),
		UsageIRQ:       round2(usageIRQ),
		UsageSoftIRQ:   round2(usageSoftIRQ),
		UsageSteal:     round2(usageSteal),
		UsageGuest:     round2(usageGuest),
		UsageGuestNice: round2(usageGuestNice),

		LoadAverage1m:         round2(load1),
		LoadAverage5m:         round2(load5),
		LoadAverage15m:        round2(load15),
		CPUCount:              cpuCount,
		CPUFrequencyMHz:       round1(cpuFreq),
		CPUTemperatureCelsius: round1(clamp(cpuTemp, 20.0, 85.0)),
		ContextSwitchesPerSec: contextSwitches,
		InterruptsPerSec:      interrupts,
		ProcessesRunning:      g.s.IntBetween(1, 20),
		ProcessesBlocked:      g.s.IntBetween(0, 5),
		UtilizationPerCore:    perCore,
	}
}

// MemGenerator produces memory samples. Total capacity is fixed per
// host for the generator's lifetime.
type MemGenerator struct {
	s     *Stream
	total int64
}

// NewMemGenerator creates a memory generator with a fixed per-host total.
func NewMemGenerator(hostID int, _ time.Time) *MemGenerator {
	s := NewStream(int64(hostID))
	return &MemGenerator{
		s:     s,
		total: Pick(s, []int64{8 * gib, 16 * gib, 32 * gib, 64 * gib}),
	}
}

// Generate produces one memory sample. available = total - used is
// never negative and used_percent stays within [20, 90].
func (g *MemGenerator) Generate(ts time.Time) MemFields {
	usedPercent := clamp(g.s.AddNoise(Seasonal(ts, 60.0, 0.2), 0.1), 20.0, 90.0)

	used := int64(float64(g.total) * usedPercent / 100)
	cached := int64(float64(g.total) * g.s.Uniform(0.05, 0.15))
	buffered := int64(float64(g.total) * g.s.Uniform(0.02, 0.08))
	available := g.total - used
	free := available - cached - buffered
	if free < 0 {
		free = 0
	}

	return MemFields{
		Total:            g.total,
		Available:        available,
		Used:             used,
		Free:             free,
		Cached:           cached,
		Buffered:         buffered,
		UsedPercent:      round2(usedPercent),
		AvailablePercent: round2(float64(available) / float64(g.total) * 100),
	}
}

// DiskGenerator produces disk usage samples. Capacity and inode count
// are fixed per host; usage grows slowly with elapsed days since the
// base timestamp, so timestamps should be fed in non-decreasing order.
type DiskGenerator struct {
	s           *Stream
	baseTime    time.Time
	total       int64
	inodesTotal int64
}

// NewDiskGenerator creates a disk generator with fixed per-host capacity.
func NewDiskGenerator(hostID int, baseTime time.Time) *DiskGenerator {
	s := NewStream(int64(hostID))
	return &DiskGenerator{
		s:           s,
		baseTime:    baseTime,
		total:       Pick(s, []int64{100 * gib, 500 * gib, 1 * tib, 2 * tib}),
		inodesTotal: s.Int64Between(1_000_000, 10_000_000),
	}
}

// Generate produces one disk sample for the given timestamp.
func (g *DiskGenerator) Generate(ts time.Time) DiskFields {
	days := int(ts.Sub(g.baseTime).Hours() / 24)
	growth := 1 + float64(days)*0.001 // 0.1% growth per day

	usedPercent := 40.0 * growth
	if usedPercent > 85.0 {
		usedPercent = 85.0
	}
	usedPercent = g.s.AddNoise(usedPercent, 0.05)

	used := int64(float64(g.total) * usedPercent / 100)
	inodesUsed := int64(float64(g.inodesTotal) * usedPercent / 100)

	return DiskFields{
		Total:       g.total,
		Free:        g.total - used,
		Used:        used,
		UsedPercent: round2(usedPercent),
		InodesTotal: g.inodesTotal,
		InodesFree:  g.inodesTotal - inodesUsed,
		InodesUsed:  inodesUsed,
	}
}

// NetGenerator produces network samples. Byte and packet counters are
// cumulative generator state: calls must be issued in increasing
// timestamp order for the series to stay realistic.
type NetGenerator struct {
	s *Stream

	bytesSent   int64
	bytesRecv   int64
	packetsSent int64
	packetsRecv int64
}

// NewNetGenerator creates a network generator with zeroed counters.
func NewNetGenerator(hostID int, _ time.Time) *NetGenerator {
	return &NetGenerator{s: NewStream(int64(hostID))}
}

// Generate produces one network sample, advancing the cumulative counters.
func (g *NetGenerator) Generate(ts time.Time) NetFields {
	activity := Seasonal(ts, 1_000_000, 0.4) // ~1MB base per interval

	sentDelta := int64(g.s.AddNoise(activity, 0.3))
	recvDelta := int64(g.s.AddNoise(activity*1.5, 0.3)) // more incoming than outgoing

	g.bytesSent += sentDelta
	g.bytesRecv += recvDelta

	// Roughly 1500 bytes per packet.
	packetsSentDelta := sentDelta / 1500
	if packetsSentDelta < 1 {
		packetsSentDelta = 1
	}
	packetsRecvDelta := recvDelta / 1500
	if packetsRecvDelta < 1 {
		packetsRecvDelta = 1
	}
	g.packetsSent += packetsSentDelta
	g.packetsRecv += packetsRecvDelta

	return NetFields{
		BytesSent:   g.bytesSent,
		BytesRecv:   g.bytesRecv,
		PacketsSent: g.packetsSent,
		PacketsRecv: g.packetsRecv,
		ErrIn:       int64(g.s.IntBetween(0, 5)),
		ErrOut:      int64(g.s.IntBetween(0, 5)),
		DropIn:      int64(g.s.IntBetween(0, 10)),
		DropOut:     int64(g.s.IntBetween(0, 10)),
	}
}

// AppGenerator produces the application suite samples (nginx,
// postgresql, redis, kernel, diskio, process, filesystem, system,
// docker) from a single per-host stream.
type AppGenerator struct {
	s        *Stream
	baseTime time.Time
}

// NewAppGenerator creates an application suite generator for a host.
func NewAppGenerator(hostID int, baseTime time.Time) *AppGenerator {
	return &AppGenerator{s: NewStream(int64(hostID)), baseTime: baseTime}
}

// Nginx produces web server counters.
func (g *AppGenerator) Nginx(ts time.Time) NginxFields {
	requests := int64(g.s.AddNoise(Seasonal(ts, 1000, 0.5), 0.3))

	return NginxFields{
		Accepts:  requests,
		Active:   int64(g.s.IntBetween(1, 50)),
		Handled:  requests,
		Reading:  int64(g.s.IntBetween(0, 10)),
		Requests: requests,
		Waiting:  int64(g.s.IntBetween(0, 20)),
		Writing:  int64(g.s.IntBetween(0, 15)),
	}
}

// PostgreSQL produces database activity counters.
func (g *AppGenerator) PostgreSQL(ts time.Time) PostgreSQLFields {
	activity := int64(g.s.AddNoise(Seasonal(ts, 100, 0.4), 0.2))

	return PostgreSQLFields{
		NumBackends:  int64(g.s.IntBetween(1, 20)),
		XactCommit:   activity * 10,
		XactRollback: activity / 10,
		BlksRead:     activity * 50,
		BlksHit:      activity * 500,
		TupReturned:  activity * 100,
		TupFetched:   activity * 80,
		TupInserted:  activity * 5,
		TupUpdated:   activity * 3,
		TupDeleted:   activity / 2,
	}
}

// Redis produces cache server gauges.
func (g *AppGenerator) Redis(ts time.Time) RedisFields {
	memory := int64(Seasonal(ts, 100*1024*1024, 0.3)) // 100MB base

	return RedisFields{
		ConnectedClients:        int64(g.s.IntBetween(1, 100)),
		UsedMemory:              memory,
		UsedMemoryRSS:           memory * 12 / 10,
		UsedMemoryPeak:          memory * 15 / 10,
		UsedMemoryLua:           g.s.Int64Between(1000, 10000),
		RDBChangesSinceLastSave: int64(g.s.IntBetween(0, 1000)),
		InstantaneousOpsPerSec:  int64(g.s.IntBetween(0, 1000)),
		InstantaneousInputKbps:  round2(g.s.Uniform(0, 100)),
		InstantaneousOutputKbps: round2(g.s.Uniform(0, 100)),
		RejectedConnections:     int64(g.s.IntBetween(0, 5)),
	}
}

// Kernel produces kernel counters.
func (g *AppGenerator) Kernel(_ time.Time) KernelFields {
	return KernelFields{
		BootTime:        g.baseTime.Unix(),
		Interrupts:      g.s.Int64Between(1_000_000, 10_000_000),
		ContextSwitches: g.s.Int64Between(100_000, 1_000_000),
		ProcessesForked: g.s.Int64Between(1000, 10000),
		DiskPagesIn:     g.s.Int64Between(1000, 100_000),
		DiskPagesOut:    g.s.Int64Between(1000, 100_000),
	}
}

// DiskIO produces disk I/O counters.
func (g *AppGenerator) DiskIO(ts time.Time) DiskIOFields {
	io := int64(g.s.AddNoise(Seasonal(ts, 1000, 0.3), 0.2))
	writes := io * 7 / 10

	return DiskIOFields{
		Reads:      io,
		Writes:     writes,
		ReadBytes:  io * 4096, // 4KB per read
		WriteBytes: writes * 4096,
		ReadTime:   io * 10, // ms
		WriteTime:  writes * 15,
		IOTime:     io * 12,
	}
}

// Process produces process table statistics.
func (g *AppGenerator) Process(ts time.Time) ProcessFields {
	total := int64(g.s.AddNoise(Seasonal(ts, 150, 0.2), 0.1))
	if total < 50 {
		total = 50
	}

	return ProcessFields{
		TotalProcesses:        total,
		RunningProcesses:      int64(g.s.IntBetween(1, 10)),
		SleepingProcesses:     total * 8 / 10,
		StoppedProcesses:      int64(g.s.IntBetween(0, 2)),
		ZombieProcesses:       int64(g.s.IntBetween(0, 1)),
		ThreadsTotal:          total * int64(g.s.IntBetween(2, 8)),
		ForksPerSec:           round2(g.s.Uniform(0.5, 5.0)),
		ContextSwitchesPerSec: round2(g.s.Uniform(1000, 10000)),
	}
}

// Filesystem produces open file statistics.
func (g *AppGenerator) Filesystem(ts time.Time) FilesystemFields {
	const maxFiles = 65536
	openFiles := int64(Seasonal(ts, maxFiles*0.3, 0.2))
	if openFiles < 100 {
		openFiles = 100
	}

	return FilesystemFields{
		OpenFiles:           openFiles,
		MaxOpenFiles:        maxFiles,
		OpenFilesPercent:    round2(float64(openFiles) / maxFiles * 100),
		FileDescriptorsUsed: openFiles * 2,
		FileDescriptorsMax:  maxFiles * 4,
		Dentries:            g.s.Int64Between(10000, 100_000),
		InodesCached:        g.s.Int64Between(5000, 50000),
	}
}

// System produces host-wide gauges.
func (g *AppGenerator) System(ts time.Time) SystemFields {
	uptimeDays := int64(ts.Sub(g.baseTime).Hours() / 24)
	uptime := uptimeDays*24*3600 + g.s.Int64Between(0, 86400)

	return SystemFields{
		UptimeSeconds:      uptime,
		BootTime:           g.baseTime.Unix(),
		UsersLoggedIn:      int64(g.s.IntBetween(1, 10)),
		SystemCallsPerSec:  round2(g.s.Uniform(1000, 50000)),
		PageFaultsPerSec:   round2(g.s.Uniform(100, 5000)),
		MajorPageFaultsSec: round2(g.s.Uniform(1, 100)),
		EntropyAvailable:   g.s.Int64Between(1000, 4096),
	}
}

// Docker produces container runtime statistics.
func (g *AppGenerator) Docker(ts time.Time) DockerFields {
	const memoryLimit = int64(1) << 30 // 1GB
	memoryUsage := int64(Seasonal(ts, float64(memoryLimit)*0.6, 0.3))

	return DockerFields{
		ContainersRunning: int64(g.s.IntBetween(0, 20)),
		ContainersPaused:  int64(g.s.IntBetween(0, 2)),
		ContainersStopped: int64(g.s.IntBetween(0, 5)),
		ImagesTotal:       int64(g.s.IntBetween(5, 50)),
		VolumesTotal:      int64(g.s.IntBetween(0, 10)),
		NetworksTotal:     int64(g.s.IntBetween(1, 5)),
		CPUUsagePercent:   round2(g.s.Uniform(0, 80)),
		MemoryUsageBytes:  memoryUsage,
		MemoryLimitBytes:  memoryLimit,
		NetworkRxBytes:    g.s.Int64Between(1_000_000, 100_000_000),
		NetworkTxBytes:    g.s.Int64Between(1_000_000, 100_000_000),
		BlockReadBytes:    g.s.Int64Between(1_000_000, 50_000_000),
		BlockWriteBytes:   g.s.Int64Between(1_000_000, 50_000_000),
	}
}
