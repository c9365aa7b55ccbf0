package build

// Version of specimen. Set with -ldflags during release.
var Version = "0.0.0"
