// Package version holds the build version of museum.
package version

// Version is overridden at link time with -ldflags "-X .../pkg/version.Version=v1.2.3".
var Version = "v0.1.0"
