package domain

// Module names a top-level area of the application that can be switched off.
type Module string

const (
	ModuleDashboard     Module = "dashboard"
	ModuleParts         Module = "parts"
	ModuleStock         Module = "stock"
	ModuleManufacturing Module = "manufacturing"
	ModulePurchasing    Module = "purchasing"
	ModuleSales         Module = "sales"
	ModuleEvents        Module = "events"
	ModuleRentals       Module = "rentals"
)

var AllModules = []Module{
	ModuleDashboard,
	ModuleParts,
	ModuleStock,
	ModuleManufacturing,
	ModulePurchasing,
	ModuleSales,
	ModuleEvents,
	ModuleRentals,
}

// Modules is the set of enabled modules. It is built once at startup and
// handed to whatever needs it.
type Modules struct {
	enabled map[Module]bool
}

func NewModules(enabled map[Module]bool) Modules {
	m := Modules{enabled: make(map[Module]bool, len(enabled))}
	for k, v := range enabled {
		m.enabled[k] = v
	}
	return m
}

// DefaultModules matches a stock installation: manufacturing, purchasing and
// sales are off.
func DefaultModules() Modules {
	return NewModules(map[Module]bool{
		ModuleDashboard: true,
		ModuleParts:     true,
		ModuleStock:     true,
		ModuleEvents:    true,
		ModuleRentals:   true,
	})
}

func (m Modules) Enabled(module Module) bool {
	return m.enabled[module]
}

// Snapshot lists every known module with its state.
func (m Modules) Snapshot() map[Module]bool {
	out := make(map[Module]bool, len(AllModules))
	for _, mod := range AllModules {
		out[mod] = m.enabled[mod]
	}
	return out
}
