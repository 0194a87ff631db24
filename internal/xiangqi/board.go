package xiangqi

import (
	"strings"
	"unicode"
)

const (
	Rows       = 10
	Cols       = 9
	NumSquares = Rows * Cols

	// 河界在第 4、5 行之间：红方过河 row<=4，黑方过河 row>=5
	riverRedRow   = 4
	riverBlackRow = 5
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

// IndexOf 把 (row, col) 打包为格号；越界返回 -1。
func IndexOf(row, col int) int {
	if !onBoard(row, col) {
		return -1
	}
	return indexOf(row, col)
}

func RowOf(sq int) int { return rowOf(sq) }
func ColOf(sq int) int { return colOf(sq) }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func opposite(side Side) Side {
	if side == Red {
		return Black
	}
	if side == Black {
		return Red
	}
	return NoSide
}

func Opposite(side Side) Side { return opposite(side) }

// 兵的前进方向：红向上(-1)，黑向下(+1)
func pawnDir(side Side) int {
	if side == Red {
		return -1
	}
	if side == Black {
		return +1
	}
	return 0
}

// 是否已经过河
func crossedRiver(side Side, row int) bool {
	if side == Red {
		return row <= riverRedRow
	}
	if side == Black {
		return row >= riverBlackRow
	}
	return false
}

func CrossedRiver(side Side, row int) bool { return crossedRiver(side, row) }

// 是否在九宫
func inPalace(side Side, row, col int) bool {
	if col < 3 || col > 5 {
		return false
	}
	if side == Black {
		return row >= 0 && row <= 2
	}
	if side == Red {
		return row >= 7 && row <= 9
	}
	return false
}

var (
	lineDirs = [4][2]int{{-1, 0}, {+1, 0}, {0, -1}, {0, +1}}
	diagDirs = [4][2]int{{-1, -1}, {-1, +1}, {+1, -1}, {+1, +1}}
)

var letterToPieceType = map[rune]PieceType{
	'r': PieceChariot,  // 车 chariot
	'h': PieceHorse,    // 马 horse
	'c': PieceCannon,   // 炮 cannon
	'e': PieceElephant, // 相 / 象 elephant
	'a': PieceAdvisor,  // 仕 / 士 advisor
	'k': PieceGeneral,  // 帅 / 将 general
	'p': PieceSoldier,  // 兵 / 卒 soldier
}

// pieceTypeToLetter letterToPieceType 的定长反查表
var pieceTypeToLetter = [...]rune{
	PieceChariot:  'r',
	PieceHorse:    'h',
	PieceCannon:   'c',
	PieceElephant: 'e',
	PieceAdvisor:  'a',
	PieceGeneral:  'k',
	PieceSoldier:  'p',
}

func pieceToChar(p Piece) rune {
	if p == 0 {
		return '.'
	}
	pt := p.Type()
	if int(pt) >= len(pieceTypeToLetter) {
		return '.'
	}
	base := pieceTypeToLetter[pt]
	if base == 0 {
		return '.'
	}
	if p.Side() == Red {
		return unicode.ToUpper(base)
	}
	return base
}

// 标准开局：row 0 是黑方底线
const initialBoardString = `rheakaehr
.........
.c.....c.
p.p.p.p.p
.........
.........
P.P.P.P.P
.C.....C.
.........
RHEAKAEHR`

func parseInitialBoard() Board {
	var b Board
	lines := make([]string, 0, Rows)
	for _, line := range strings.Split(initialBoardString, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != Rows {
		panic("initialBoardString 行数不为 10")
	}
	for r := 0; r < Rows; r++ {
		if len(lines[r]) != Cols {
			panic("initialBoardString 列数不为 9")
		}
		for c, ch := range lines[r] {
			if ch == '.' {
				continue
			}
			isUpper := unicode.IsUpper(ch)
			base := unicode.ToLower(ch)
			pt, ok := letterToPieceType[base]
			if !ok {
				panic("unknown piece letter: " + string(ch))
			}
			side := Black
			if isUpper {
				side = Red
			}
			b.Squares[indexOf(r, c)] = makePiece(side, pt)
		}
	}
	return b
}

func NewInitialPosition() *Position {
	pos := &Position{
		Board:      parseInitialBoard(),
		SideToMove: Red, // 红先
	}
	pos.Hash = pos.CalculateHash()
	return pos
}

// PieceAt 带范围检查的取子。
func (b *Board) PieceAt(row, col int) Piece {
	if !onBoard(row, col) {
		return 0
	}
	return b.Squares[indexOf(row, col)]
}

// PiecesOf 枚举一方（pt==PieceNone 时不限兵种）的所有棋子格号。
func (b *Board) PiecesOf(side Side, pt PieceType) []int {
	var out []int
	for sq, pc := range b.Squares {
		if pc == 0 || pc.Side() != side {
			continue
		}
		if pt != PieceNone && pc.Type() != pt {
			continue
		}
		out = append(out, sq)
	}
	return out
}

// CountPieces 数盘面上的棋子总数（side==NoSide 时数双方）。
func (b *Board) CountPieces(side Side) int {
	n := 0
	for _, pc := range b.Squares {
		if pc == 0 {
			continue
		}
		if side == NoSide || pc.Side() == side {
			n++
		}
	}
	return n
}
