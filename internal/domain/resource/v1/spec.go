package resourcev1

// ProductType classifies what kind of machine an offering provides.
type ProductType string

const (
	// ProductDedicated is a physical dedicated server.
	ProductDedicated ProductType = "dedicated"
	// ProductVPS is a virtual private server.
	ProductVPS ProductType = "vps"
	// ProductBareMetal is an API-provisioned bare metal instance.
	ProductBareMetal ProductType = "baremetal"
)

// Spec describes the resource a provider is offering. The matching engine
// never interprets a Spec directly; it is only tested through predicates.
type Spec struct {
	ProductType    ProductType `json:"productType" yaml:"product_type"`
	Virtualization string      `json:"virtualization,omitempty" yaml:"virtualization,omitempty"`
	Country        string      `json:"country" yaml:"country"`
	City           string      `json:"city,omitempty" yaml:"city,omitempty"`
	MemoryGB       uint32      `json:"memoryGB" yaml:"memory_gb"`
	Cores          uint32      `json:"cores" yaml:"cores"`
	GPUName        string      `json:"gpuName,omitempty" yaml:"gpu_name,omitempty"`
	UplinkMbps     uint32      `json:"uplinkMbps,omitempty" yaml:"uplink_mbps,omitempty"`
	Features       []string    `json:"features,omitempty" yaml:"features,omitempty"`
	OperatingSys   []string    `json:"operatingSystems,omitempty" yaml:"operating_systems,omitempty"`
}

// HasGPU reports whether the offered machine carries a GPU.
func (s Spec) HasGPU() bool {
	return s.GPUName != ""
}

// HasFeature reports whether the offered machine lists the given feature.
func (s Spec) HasFeature(feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// SupportsOS reports whether the offered machine can run the given operating system.
func (s Spec) SupportsOS(os string) bool {
	for _, o := range s.OperatingSys {
		if o == os {
			return true
		}
	}
	return false
}
