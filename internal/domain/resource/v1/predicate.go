package resourcev1

// Predicate is a buyer's requirement over resource specs. It is a closed,
// conjunctive grammar: every set field must hold for the predicate to match.
// Evaluation is pure and terminates in time linear in the spec's list fields,
// so arbitrary buyer-supplied code never runs inside the engine.
//
// The zero value matches every spec. A nil *Predicate matches nothing:
// an unevaluable requirement yields no match rather than an error.
type Predicate struct {
	ProductType    ProductType `json:"productType,omitempty" yaml:"product_type,omitempty"`
	Virtualization string      `json:"virtualization,omitempty" yaml:"virtualization,omitempty"`
	Country        string      `json:"country,omitempty" yaml:"country,omitempty"`
	City           string      `json:"city,omitempty" yaml:"city,omitempty"`
	MinMemoryGB    uint32      `json:"minMemoryGB,omitempty" yaml:"min_memory_gb,omitempty"`
	MinCores       uint32      `json:"minCores,omitempty" yaml:"min_cores,omitempty"`
	MinUplinkMbps  uint32      `json:"minUplinkMbps,omitempty" yaml:"min_uplink_mbps,omitempty"`
	GPU            *bool       `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	Features       []string    `json:"features,omitempty" yaml:"features,omitempty"`
	OperatingSys   string      `json:"operatingSystem,omitempty" yaml:"operating_system,omitempty"`
}

// Match reports whether the spec satisfies every condition set on the predicate.
func (p *Predicate) Match(spec Spec) bool {
	if p == nil {
		return false
	}
	if p.ProductType != "" && spec.ProductType != p.ProductType {
		return false
	}
	if p.Virtualization != "" && spec.Virtualization != p.Virtualization {
		return false
	}
	if p.Country != "" && spec.Country != p.Country {
		return false
	}
	if p.City != "" && spec.City != p.City {
		return false
	}
	if spec.MemoryGB < p.MinMemoryGB {
		return false
	}
	if spec.Cores < p.MinCores {
		return false
	}
	if spec.UplinkMbps < p.MinUplinkMbps {
		return false
	}
	if p.GPU != nil && spec.HasGPU() != *p.GPU {
		return false
	}
	for _, f := range p.Features {
		if !spec.HasFeature(f) {
			return false
		}
	}
	if p.OperatingSys != "" && !spec.SupportsOS(p.OperatingSys) {
		return false
	}
	return true
}
