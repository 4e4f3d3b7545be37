// Package viz renders a running particle scenario in the terminal.
//
// Particles are drawn on a braille [Canvas] (2x4 dots per cell) next to a
// stats panel. The [Model] is a Bubble Tea program model: it steps the
// scenario on every tick and redraws.
//
//	m := viz.NewModel(runner, 30)
//	tea.NewProgram(m).Run()
package viz
