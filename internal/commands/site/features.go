package sitecmd

// FeatureGates exposes runtime feature toggles required by site command
// handlers. Callers supply closures that read from the module configuration so
// handlers stay decoupled from it.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}
