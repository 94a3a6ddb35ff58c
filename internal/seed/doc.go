// Package seed reads the tab separated word and example files and loads
// them into the store.
package seed
