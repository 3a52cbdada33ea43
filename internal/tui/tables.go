package tui

// resizeTables fits the list tables into the current terminal, leaving
// room for the header, criteria lines and footer.
func (m *Model) resizeTables() {
	if m.height == 0 {
		return
	}
	h := m.height - 9
	if h < 4 {
		h = 4
	}

	if m.fleet != nil {
		m.fleet.table.SetHeight(h)
	}
	if m.board != nil {
		m.board.table.SetHeight(h)
	}
	if m.inventory != nil {
		m.inventory.table.SetHeight(h)
	}
	if m.detail != nil {
		openHeight := h / 2
		if openHeight < 4 {
			openHeight = 4
		}
		m.detail.table.SetHeight(openHeight)
	}
}
