// Package domain holds the service-level vocabulary shared by the app layer
// and its adapters: sentinel errors for errors.Is checks and the messages
// mutations hand to outbound ports.
package domain
