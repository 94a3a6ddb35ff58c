// Package processor implements the hebrewtrainer subcommands. It wires the
// word store, the speech provider chain, the audio cache and the player
// together from the parsed flags and configuration, and hands them to the
// seed loader, the listing commands or the GUI.
package processor
