//go:build !linux

package main

import "github.com/litecube/litecube/internal/platform"

func probeMonitors(platform.Backend, *report) {}
