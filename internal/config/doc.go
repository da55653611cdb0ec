// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config resolves launcher settings from the process environment
// and normalizes the variables the Chroma server reads at startup.
//
// Reading is side-effect free (LoadSettings takes a lookup function);
// mutation is confined to Normalize, which works on an Environ so tests
// can run against an in-memory map.
package config
