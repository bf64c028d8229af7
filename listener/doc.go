// Package listener provides a named HTTP listener module for the Fx DI container.
//
// The listener's Config can be supplied with options or decoded from a configuration document
// with config.Provider; either way it is defaulted and then validated with
// github.com/go-playground/validator before the server is built.
package listener
