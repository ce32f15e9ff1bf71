// Package di provides a minimal service container with typed tokens.
// Registration and resolution happen during single-threaded startup;
// resolved services are cached and safe for concurrent reads afterwards.
package di

import "fmt"

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get resolves a service by name, invoking its factory on first use.
	// Panics when the name was never registered: that is a wiring bug,
	// not a runtime condition.
	Get(name string) any
}

// Container is the full contract used during module registration.
type Container interface {
	ServiceRegistry
	// Register stores an already-built instance.
	Register(name string, service any)
	// RegisterFactory stores a lazy constructor invoked on first Get.
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type container struct {
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, service any) {
	c.instances[name] = service
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.factories[name] = factory
}

func (c *container) Get(name string) any {
	if svc, ok := c.instances[name]; ok {
		return svc
	}
	factory, ok := c.factories[name]
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	svc := factory(c)
	c.instances[name] = svc
	return svc
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token under a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration name of the token.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token's name.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a token to its typed service.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	return sr.Get(token.name).(T)
}
