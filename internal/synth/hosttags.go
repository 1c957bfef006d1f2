package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// HostTags is the immutable per-host metadata record attached to every
// document for that host. Generated once per host id per generation
// context and never mutated afterwards.
type HostTags struct {
	Hostname           string `bson:"hostname"`
	Region             string `bson:"region"`
	Datacenter         string `bson:"datacenter"`
	Rack               string `bson:"rack"`
	OS                 string `bson:"os"`
	Arch               string `bson:"arch"`
	Team               string `bson:"team"`
	Service            string `bson:"service"`
	ServiceVersion     string `bson:"service_version"`
	ServiceEnvironment string `bson:"service_environment"`

	InstanceType     string   `bson:"instance_type"`
	InstanceSize     string   `bson:"instance_size"`
	AvailabilityZone string   `bson:"availability_zone"`
	VPCID            string   `bson:"vpc_id"`
	SubnetID         string   `bson:"subnet_id"`
	SecurityGroups   []string `bson:"security_groups"`

	CPUCores         int    `bson:"cpu_cores"`
	CPUModel         string `bson:"cpu_model"`
	MemoryGB         int    `bson:"memory_gb"`
	StorageType      string `bson:"storage_type"`
	StorageSizeGB    int    `bson:"storage_size_gb"`
	NetworkInterface string `bson:"network_interface"`

	DeploymentID      string `bson:"deployment_id"`
	ClusterName       string `bson:"cluster_name"`
	NodeRole          string `bson:"node_role"`
	MonitoringEnabled bool   `bson:"monitoring_enabled"`
	BackupEnabled     bool   `bson:"backup_enabled"`
	AutoScalingGroup  string `bson:"auto_scaling_group"`

	CostCenter  string `bson:"cost_center"`
	ProjectCode string `bson:"project_code"`
	Owner       string `bson:"owner"`
	BillingTag  string `bson:"billing_tag"`

	ComplianceLevel   string `bson:"compliance_level"`
	EncryptionEnabled bool   `bson:"encryption_enabled"`
	PatchGroup        string `bson:"patch_group"`
	MaintenanceWindow string `bson:"maintenance_window"`
}

var (
	regions = []string{
		"us-east-1", "us-west-1", "us-west-2",
		"eu-west-1", "eu-central-1",
		"ap-southeast-1", "ap-southeast-2", "ap-northeast-1",
		"sa-east-1",
	}

	// regionDatacenters maps each region to its allowed datacenter set.
	// Every generated datacenter must belong to its region's set.
	regionDatacenters = map[string][]string{
		"us-east-1":      {"us-east-1a", "us-east-1b", "us-east-1c", "us-east-1e"},
		"us-west-1":      {"us-west-1a", "us-west-1b"},
		"us-west-2":      {"us-west-2a", "us-west-2b", "us-west-2c"},
		"eu-west-1":      {"eu-west-1a", "eu-west-1b", "eu-west-1c"},
		"eu-central-1":   {"eu-central-1a", "eu-central-1b"},
		"ap-southeast-1": {"ap-southeast-1a", "ap-southeast-1b"},
		"ap-southeast-2": {"ap-southeast-2a", "ap-southeast-2b"},
		"ap-northeast-1": {"ap-northeast-1a", "ap-northeast-1c"},
		"sa-east-1":      {"sa-east-1a", "sa-east-1b", "sa-east-1c"},
	}

	osChoices = []string{
		"Ubuntu16.10", "Ubuntu16.04LTS", "Ubuntu15.10",
		"CentOS7", "RHEL8", "Amazon Linux 2",
	}
	archChoices        = []string{"x64", "x86", "arm64"}
	teamChoices        = []string{"SF", "NYC", "LON", "CHI", "TKY", "SYD", "BER", "TOR"}
	environmentChoices = []string{"production", "staging", "test", "development", "qa"}

	instanceTypes = []string{
		"t3.micro", "t3.small", "t3.medium", "t3.large",
		"m5.large", "m5.xlarge", "c5.large", "r5.large",
	}
	instanceSizes      = []string{"micro", "small", "medium", "large", "xlarge", "2xlarge"}
	storageTypes       = []string{"gp3", "gp2", "io1", "io2", "st1", "sc1"}
	networkInterfaces  = []string{"eth0", "ens5", "enp0s3", "wlan0"}
	nodeRoles          = []string{"master", "worker", "etcd", "ingress", "storage"}
	complianceLevels   = []string{"SOC2", "PCI-DSS", "HIPAA", "ISO27001", "FedRAMP"}
	patchGroups        = []string{"critical", "standard", "delayed", "manual"}
	maintenanceWindows = []string{"sunday-2am", "saturday-3am", "weekday-11pm", "monthly-first-sunday"}
	cpuModels          = []string{
		"Intel Xeon E5-2686 v4", "Intel Xeon Platinum 8175M",
		"AMD EPYC 7571", "ARM Graviton2",
	}
	azSuffixes = []string{"a", "b", "c"}

	projectWords = []string{
		"atlas", "borealis", "cascade", "delta", "ember",
		"falcon", "granite", "horizon", "ion", "jade",
	}
	ownerNames = []string{
		"alex.kim", "sam.rivera", "jordan.lee", "casey.nguyen",
		"morgan.patel", "taylor.novak", "riley.sato", "drew.ivanov",
	}
)

// hardwareSpec maps an instance type to its fixed hardware sizing.
func hardwareSpec(instanceType string) (cores, memoryGB, storageGB int) {
	switch {
	case strings.Contains(instanceType, "micro"):
		return 1, 1, 8
	case strings.Contains(instanceType, "small"):
		return 1, 2, 20
	case strings.Contains(instanceType, "medium"):
		return 2, 4, 30
	case strings.Contains(instanceType, "large"):
		return 2, 8, 50
	default:
		return 4, 16, 100
	}
}

const hexDigits = "0123456789abcdef"

// HostTagGenerator produces descriptive host metadata. Region, instance
// type and the like are freshly sampled per call; only the metric
// generators carry a reproducibility requirement. Not safe for
// concurrent use; each generation context owns its own instance.
type HostTagGenerator struct {
	r *rand.Rand
}

// NewHostTagGenerator creates a tag generator with its own random source.
func NewHostTagGenerator() *HostTagGenerator {
	return &HostTagGenerator{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (g *HostTagGenerator) pick(opts []string) string {
	return opts[g.r.Intn(len(opts))]
}

func (g *HostTagGenerator) hex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[g.r.Intn(len(hexDigits))]
	}
	return string(b)
}

// Generate produces the metadata record for a host id.
func (g *HostTagGenerator) Generate(hostID int) HostTags {
	region := g.pick(regions)
	datacenter := g.pick(regionDatacenters[region])
	instanceType := g.pick(instanceTypes)
	cores, memoryGB, storageGB := hardwareSpec(instanceType)

	groups := make([]string, g.r.Intn(3)+1)
	for i := range groups {
		groups[i] = "sg-" + g.hex(8)
	}

	return HostTags{
		Hostname:           fmt.Sprintf("host_%d", hostID),
		Region:             region,
		Datacenter:         datacenter,
		Rack:               fmt.Sprintf("%d", g.r.Intn(100)+1),
		OS:                 g.pick(osChoices),
		Arch:               g.pick(archChoices),
		Team:               g.pick(teamChoices),
		Service:            fmt.Sprintf("%d", g.r.Intn(20)+1),
		ServiceVersion:     fmt.Sprintf("%d", g.r.Intn(2)+1),
		ServiceEnvironment: g.pick(environmentChoices),

		InstanceType:     instanceType,
		InstanceSize:     g.pick(instanceSizes),
		AvailabilityZone: region + g.pick(azSuffixes),
		VPCID:            "vpc-" + g.hex(8),
		SubnetID:         "subnet-" + g.hex(8),
		SecurityGroups:   groups,

		CPUCores:         cores,
		CPUModel:         g.pick(cpuModels),
		MemoryGB:         memoryGB,
		StorageType:      g.pick(storageTypes),
		StorageSizeGB:    storageGB,
		NetworkInterface: g.pick(networkInterfaces),

		DeploymentID:      "deploy-" + g.hex(8),
		ClusterName:       fmt.Sprintf("cluster-%s-%d", g.pick([]string{"prod", "staging", "dev"}), g.r.Intn(5)+1),
		NodeRole:          g.pick(nodeRoles),
		MonitoringEnabled: g.r.Intn(2) == 0,
		BackupEnabled:     g.r.Intn(2) == 0,
		AutoScalingGroup:  fmt.Sprintf("asg-%s-%d", g.pick(projectWords), g.r.Intn(10)+1),

		CostCenter:  fmt.Sprintf("CC-%d", g.r.Intn(9000)+1000),
		ProjectCode: fmt.Sprintf("PROJ-%s-%d", strings.ToUpper(g.pick(projectWords)), g.r.Intn(900)+100),
		Owner:       g.pick(ownerNames) + "@example.com",
		BillingTag:  "billing-" + g.pick(projectWords),

		ComplianceLevel:   g.pick(complianceLevels),
		EncryptionEnabled: g.r.Intn(2) == 0,
		PatchGroup:        g.pick(patchGroups),
		MaintenanceWindow: g.pick(maintenanceWindows),
	}
}
