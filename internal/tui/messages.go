package tui

// refreshMsg asks the model to recompute its summary.
type refreshMsg struct{}
