// Command bioflow-align aligns pairs of biological sequences.
//
// Usage:
//
//	bioflow-align [command] [flags]
//
// Commands:
//
//	global      Needleman-Wunsch alignment of two sequences
//	local       Smith-Waterman alignment of two sequences
//	batch       Align a list of sequences concurrently
//	matrix      Check or print a similarity matrix
//	version     Show version information
//
// Scoring flags may also come from a YAML file (--config) or BIOFLOW_*
// environment variables.
package main

func main() {
	Execute()
}
