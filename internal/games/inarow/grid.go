package inarow

// board is a view over a packed 2-bits-per-cell grid, row-major.
type board struct {
	cells      []byte
	rows, cols int
}

func (b *board) inside(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

func (b *board) at(r, c int) Cell {
	idx := r*b.cols + c
	return Cell((b.cells[idx/4] >> ((idx % 4) * 2)) & 0x03)
}

func (b *board) set(r, c int, v Cell) {
	idx := r*b.cols + c
	shift := (idx % 4) * 2
	b.cells[idx/4] = (b.cells[idx/4] &^ (0x03 << shift)) | (byte(v) << shift)
}

// drop simulates gravity for Connect-Four boards and returns the row the
// disc lands in, or -1 if the column is full.
func (b *board) drop(col int) int {
	for r := b.rows - 1; r >= 0; r-- {
		if b.at(r, col) == Empty {
			return r
		}
	}
	return -1
}

// wins tests whether the stone at (row,col) completes a line. With exact set,
// lines longer than winLen do not count.
func (b *board) wins(row, col, winLen int, exact bool) bool {
	mark := b.at(row, col)
	if mark == Empty {
		return false
	}
	dirs := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1

		fr, fc := row+d[0], col+d[1]
		for b.inside(fr, fc) && b.at(fr, fc) == mark {
			count++
			fr += d[0]
			fc += d[1]
		}

		br, bc := row-d[0], col-d[1]
		for b.inside(br, bc) && b.at(br, bc) == mark {
			count++
			br -= d[0]
			bc -= d[1]
		}

		if exact {
			if count == winLen {
				return true
			}
			continue
		}
		if count >= winLen {
			return true
		}
	}
	return false
}

// ascii flattens the board into '0','1','2' per cell.
func (b *board) ascii() string {
	out := make([]byte, 0, b.rows*b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			out = append(out, byte('0'+b.at(r, c)))
		}
	}
	return string(out)
}
