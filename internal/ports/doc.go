// Package ports defines the interfaces between layers. Service ports are
// implemented by the app layer and called by inbound adapters (HTTP, CLI);
// client ports are implemented by outbound adapters and called by mutations.
package ports
