// Package canvas holds the particle set being displayed and pushes it to a
// rendering [Surface].
//
// A [Canvas] is either Empty or Populated:
//
//	Empty     --InsertData-->      Populated
//	Populated --UpdatePositions--> Populated
//	any       --Reset-->           Empty
//
// [BrailleSurface] renders into a grid of Unicode braille characters (2x4 dots per
// cell) for terminal windows. Graphical surfaces live in package gui.
package canvas
