package llm

import "fmt"

// defines a function that creates a new generator instance
type ProviderFactory func() (Generator, error)

// registry of available providers
var providers = make(map[string]ProviderFactory)

// registers a provider factory with the given name
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// creates a new generator instance based on the given name
func NewGenerator(name string) (Generator, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}
