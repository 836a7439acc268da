// Package testutil holds helpers shared by package tests: template tree
// fixtures, a scripted command runner and environment checks.
//
// It is imported from _test.go files only.
package testutil
