package synth

// MetricType identifies one of the supported measurement categories.
// Every document carries exactly one metric type.
type MetricType string

const (
	MetricCPU        MetricType = "cpu"
	MetricMem        MetricType = "mem"
	MetricDisk       MetricType = "disk"
	MetricDiskIO     MetricType = "diskio"
	MetricNet        MetricType = "net"
	MetricKernel     MetricType = "kernel"
	MetricNginx      MetricType = "nginx"
	MetricPostgreSQL MetricType = "postgresql"
	MetricRedis      MetricType = "redis"
	MetricProcess    MetricType = "process"
	MetricFilesystem MetricType = "filesystem"
	MetricSystem     MetricType = "system"
	MetricDocker     MetricType = "docker"
)

// AllMetricTypes lists every supported metric type in a fixed order.
var AllMetricTypes = []MetricType{
	MetricCPU,
	MetricMem,
	MetricDisk,
	MetricNet,
	MetricDiskIO,
	MetricKernel,
	MetricNginx,
	MetricPostgreSQL,
	MetricRedis,
	MetricProcess,
	MetricFilesystem,
	MetricSystem,
	MetricDocker,
}

// Sample is one generated measurement for a single metric type.
// Concrete implementations are bson-serializable field records.
type Sample interface {
	Type() MetricType
}

// CPUFields holds CPU usage breakdown plus load and scheduler counters.
// The ten usage_* percentages sum to 100 (usage_idle is derived).
type CPUFields struct {
	UsageUser      float64 `bson:"usage_user"`
	UsageSystem    float64 `bson:"usage_system"`
	UsageIdle      float64 `bson:"usage_idle"`
	UsageNice      float64 `bson:"usage_nice"`
	UsageIOWait    float64 `bson:"usage_iowait"`
	UsageIRQ       float64 `bson:"usage_irq"`
	UsageSoftIRQ   float64 `bson:"usage_softirq"`
	UsageSteal     float64 `bson:"usage_steal"`
	UsageGuest     float64 `bson:"usage_guest"`
	UsageGuestNice float64 `bson:"usage_guest_nice"`

	LoadAverage1m         float64   `bson:"load_average_1m"`
	LoadAverage5m         float64   `bson:"load_average_5m"`
	LoadAverage15m        float64   `bson:"load_average_15m"`
	CPUCount              int       `bson:"cpu_count"`
	CPUFrequencyMHz       float64   `bson:"cpu_frequency_mhz"`
	CPUTemperatureCelsius float64   `bson:"cpu_temperature_celsius"`
	ContextSwitchesPerSec int64     `bson:"context_switches_per_sec"`
	InterruptsPerSec      int64     `bson:"interrupts_per_sec"`
	ProcessesRunning      int       `bson:"processes_running"`
	ProcessesBlocked      int       `bson:"processes_blocked"`
	UtilizationPerCore    []float64 `bson:"cpu_utilization_per_core"`
}

func (CPUFields) Type() MetricType { return MetricCPU }

// MemFields holds memory capacity and usage for a host.
type MemFields struct {
	Total            int64   `bson:"total"`
	Available        int64   `bson:"available"`
	Used             int64   `bson:"used"`
	Free             int64   `bson:"free"`
	Cached           int64   `bson:"cached"`
	Buffered         int64   `bson:"buffered"`
	UsedPercent      float64 `bson:"used_percent"`
	AvailablePercent float64 `bson:"available_percent"`
}

func (MemFields) Type() MetricType { return MetricMem }

// DiskFields holds disk space and inode usage for a host.
type DiskFields struct {
	Total       int64   `bson:"total"`
	Free        int64   `bson:"free"`
	Used        int64   `bson:"used"`
	UsedPercent float64 `bson:"used_percent"`
	InodesTotal int64   `bson:"inodes_total"`
	InodesFree  int64   `bson:"inodes_free"`
	InodesUsed  int64   `bson:"inodes_used"`
}

func (DiskFields) Type() MetricType { return MetricDisk }

// DiskIOFields holds disk I/O operation counters.
type DiskIOFields struct {
	Reads      int64 `bson:"reads"`
	Writes     int64 `bson:"writes"`
	ReadBytes  int64 `bson:"read_bytes"`
	WriteBytes int64 `bson:"write_bytes"`
	ReadTime   int64 `bson:"read_time"`
	WriteTime  int64 `bson:"write_time"`
	IOTime     int64 `bson:"io_time"`
}

func (DiskIOFields) Type() MetricType { return MetricDiskIO }

// NetFields holds network interface counters. Byte and packet counters
// are cumulative across a generator's lifetime.
type NetFields struct {
	BytesSent   int64 `bson:"bytes_sent"`
	BytesRecv   int64 `bson:"bytes_recv"`
	PacketsSent int64 `bson:"packets_sent"`
	PacketsRecv int64 `bson:"packets_recv"`
	ErrIn       int64 `bson:"err_in"`
	ErrOut      int64 `bson:"err_out"`
	DropIn      int64 `bson:"drop_in"`
	DropOut     int64 `bson:"drop_out"`
}

func (NetFields) Type() MetricType { return MetricNet }

// KernelFields holds kernel-level counters.
type KernelFields struct {
	BootTime        int64 `bson:"boot_time"`
	Interrupts      int64 `bson:"interrupts"`
	ContextSwitches int64 `bson:"context_switches"`
	ProcessesForked int64 `bson:"processes_forked"`
	DiskPagesIn     int64 `bson:"disk_pages_in"`
	DiskPagesOut    int64 `bson:"disk_pages_out"`
}

func (KernelFields) Type() MetricType { return MetricKernel }

// NginxFields holds nginx stub_status style counters.
type NginxFields struct {
	Accepts  int64 `bson:"accepts"`
	Active   int64 `bson:"active"`
	Handled  int64 `bson:"handled"`
	Reading  int64 `bson:"reading"`
	Requests int64 `bson:"requests"`
	Waiting  int64 `bson:"waiting"`
	Writing  int64 `bson:"writing"`
}

func (NginxFields) Type() MetricType { return MetricNginx }

// PostgreSQLFields holds pg_stat_database style counters.
type PostgreSQLFields struct {
	NumBackends  int64 `bson:"numbackends"`
	XactCommit   int64 `bson:"xact_commit"`
	XactRollback int64 `bson:"xact_rollback"`
	BlksRead     int64 `bson:"blks_read"`
	BlksHit      int64 `bson:"blks_hit"`
	TupReturned  int64 `bson:"tup_returned"`
	TupFetched   int64 `bson:"tup_fetched"`
	TupInserted  int64 `bson:"tup_inserted"`
	TupUpdated   int64 `bson:"tup_updated"`
	TupDeleted   int64 `bson:"tup_deleted"`
}

func (PostgreSQLFields) Type() MetricType { return MetricPostgreSQL }

// RedisFields holds redis INFO style gauges and counters.
type RedisFields struct {
	ConnectedClients        int64   `bson:"connected_clients"`
	UsedMemory              int64   `bson:"used_memory"`
	UsedMemoryRSS           int64   `bson:"used_memory_rss"`
	UsedMemoryPeak          int64   `bson:"used_memory_peak"`
	UsedMemoryLua           int64   `bson:"used_memory_lua"`
	RDBChangesSinceLastSave int64   `bson:"rdb_changes_since_last_save"`
	InstantaneousOpsPerSec  int64   `bson:"instantaneous_ops_per_sec"`
	InstantaneousInputKbps  float64 `bson:"instantaneous_input_kbps"`
	InstantaneousOutputKbps float64 `bson:"instantaneous_output_kbps"`
	RejectedConnections     int64   `bson:"rejected_connections"`
}

func (RedisFields) Type() MetricType { return MetricRedis }

// ProcessFields holds process table statistics.
type ProcessFields struct {
	TotalProcesses        int64   `bson:"total_processes"`
	RunningProcesses      int64   `bson:"running_processes"`
	SleepingProcesses     int64   `bson:"sleeping_processes"`
	StoppedProcesses      int64   `bson:"stopped_processes"`
	ZombieProcesses       int64   `bson:"zombie_processes"`
	ThreadsTotal          int64   `bson:"threads_total"`
	ForksPerSec           float64 `bson:"forks_per_sec"`
	ContextSwitchesPerSec float64 `bson:"context_switches_per_sec"`
}

func (ProcessFields) Type() MetricType { return MetricProcess }

// FilesystemFields holds open file and descriptor statistics.
type FilesystemFields struct {
	OpenFiles           int64   `bson:"open_files"`
	MaxOpenFiles        int64   `bson:"max_open_files"`
	OpenFilesPercent    float64 `bson:"open_files_percent"`
	FileDescriptorsUsed int64   `bson:"file_descriptors_used"`
	FileDescriptorsMax  int64   `bson:"file_descriptors_max"`
	Dentries            int64   `bson:"dentries"`
	InodesCached        int64   `bson:"inodes_cached"`
}

func (FilesystemFields) Type() MetricType { return MetricFilesystem }

// SystemFields holds system-wide gauges.
type SystemFields struct {
	UptimeSeconds      int64   `bson:"uptime_seconds"`
	BootTime           int64   `bson:"boot_time"`
	UsersLoggedIn      int64   `bson:"users_logged_in"`
	SystemCallsPerSec  float64 `bson:"system_calls_per_sec"`
	PageFaultsPerSec   float64 `bson:"page_faults_per_sec"`
	MajorPageFaultsSec float64 `bson:"major_page_faults_per_sec"`
	EntropyAvailable   int64   `bson:"entropy_available"`
}

func (SystemFields) Type() MetricType { return MetricSystem }

// DockerFields holds container runtime statistics.
type DockerFields struct {
	ContainersRunning int64   `bson:"containers_running"`
	ContainersPaused  int64   `bson:"containers_paused"`
	ContainersStopped int64   `bson:"containers_stopped"`
	ImagesTotal       int64   `bson:"images_total"`
	VolumesTotal      int64   `bson:"volumes_total"`
	NetworksTotal     int64   `bson:"networks_total"`
	CPUUsagePercent   float64 `bson:"cpu_usage_percent"`
	MemoryUsageBytes  int64   `bson:"memory_usage_bytes"`
	MemoryLimitBytes  int64   `bson:"memory_limit_bytes"`
	NetworkRxBytes    int64   `bson:"network_rx_bytes"`
	NetworkTxBytes    int64   `bson:"network_tx_bytes"`
	BlockReadBytes    int64   `bson:"block_read_bytes"`
	BlockWriteBytes   int64   `bson:"block_write_bytes"`
}

func (DockerFields) Type() MetricType { return MetricDocker }
