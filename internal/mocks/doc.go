// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock exposes function fields to override a
// single method per test, with a usable in-memory default behind them.
package mocks
