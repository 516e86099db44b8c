package ui

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
)

// Layout breakpoints.
const (
	// BreakpointNarrow is the width below which only the orientation panel is shown.
	BreakpointNarrow = 40

	// MinPanelWidth is the minimum width of the divider under the title.
	MinPanelWidth = 20
)
