// Package process manages the process group of external engine invocations,
// so that an interrupted build leaves no orphaned converter behind.
package process
