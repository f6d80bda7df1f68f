package registry

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/implshard/pkg/types"
)

// Well-known names shared by every publisher and the one sink installer.
const (
	// RegisterFuncName names the sink entry point
	RegisterFuncName = "register_implementors"

	// HoldingAreaName names the buffer used before the sink is installed
	HoldingAreaName = "pending_implementors"
)

// Process-wide hub for implementor payloads
var (
	defaultMu  sync.Mutex
	defaultHub *Hub[types.Payload]
)

// Default returns the process-wide hub, creating it on first use.
func Default() *Hub[types.Payload] {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultHub == nil {
		defaultHub = New[types.Payload](WithName(HoldingAreaName))
	}
	return defaultHub
}

// Publish publishes payload on the process-wide hub.
func Publish(id string, payload types.Payload) error {
	return Default().Publish(id, payload)
}

// Install installs c as the sink of the process-wide hub.
func Install(c Consumer[types.Payload]) error {
	return Default().Install(c)
}

// MustPublish publishes on the process-wide hub and panics on failure.
// This is useful for init() functions in generated shard packages, where a
// failure is a programming error.
func MustPublish(id string, payload types.Payload) {
	if err := Publish(id, payload); err != nil {
		panic(fmt.Sprintf("failed to publish %s: %v", id, err))
	}
}

// ResetDefault discards the process-wide hub. Tests only.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultHub = nil
}
