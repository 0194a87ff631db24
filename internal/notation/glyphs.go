package notation

import (
	"strings"

	"golang.org/x/text/width"

	"xiangqi/internal/xiangqi"
)

// 棋子字形：简体/繁体/红黑变体统统映射到兵种。
// 解析端来者不拒，红黑以调用方给的 side 为准。
var glyphToPieceType = map[rune]xiangqi.PieceType{
	'车': xiangqi.PieceChariot, '車': xiangqi.PieceChariot, '俥': xiangqi.PieceChariot, '伡': xiangqi.PieceChariot,
	'马': xiangqi.PieceHorse, '馬': xiangqi.PieceHorse, '傌': xiangqi.PieceHorse,
	'炮': xiangqi.PieceCannon, '砲': xiangqi.PieceCannon, '包': xiangqi.PieceCannon,
	'相': xiangqi.PieceElephant, '象': xiangqi.PieceElephant,
	'仕': xiangqi.PieceAdvisor, '士': xiangqi.PieceAdvisor,
	'帅': xiangqi.PieceGeneral, '帥': xiangqi.PieceGeneral, '将': xiangqi.PieceGeneral, '將': xiangqi.PieceGeneral,
	'兵': xiangqi.PieceSoldier, '卒': xiangqi.PieceSoldier,
}

// 生成端的标准字形：红黑各自一套简体
var redGlyph = map[xiangqi.PieceType]rune{
	xiangqi.PieceChariot:  '车',
	xiangqi.PieceHorse:    '马',
	xiangqi.PieceCannon:   '炮',
	xiangqi.PieceElephant: '相',
	xiangqi.PieceAdvisor:  '仕',
	xiangqi.PieceGeneral:  '帅',
	xiangqi.PieceSoldier:  '兵',
}

var blackGlyph = map[xiangqi.PieceType]rune{
	xiangqi.PieceChariot:  '车',
	xiangqi.PieceHorse:    '马',
	xiangqi.PieceCannon:   '炮',
	xiangqi.PieceElephant: '象',
	xiangqi.PieceAdvisor:  '士',
	xiangqi.PieceGeneral:  '将',
	xiangqi.PieceSoldier:  '卒',
}

// PieceGlyph 返回某方某兵种的标准显示字形（快照/渲染层用）。
func PieceGlyph(pt xiangqi.PieceType, side xiangqi.Side) string {
	var g rune
	if side == xiangqi.Black {
		g = blackGlyph[pt]
	} else {
		g = redGlyph[pt]
	}
	if g == 0 {
		return ""
	}
	return string(g)
}

type action int8

const (
	actionNone    action = iota
	actionAdvance        // 进
	actionRetreat        // 退
	actionLevel          // 平
)

var glyphToAction = map[rune]action{
	'进': actionAdvance, '進': actionAdvance,
	'退': actionRetreat,
	'平': actionLevel,
}

var actionGlyph = map[action]rune{
	actionAdvance: '进',
	actionRetreat: '退',
	actionLevel:   '平',
}

// 位置描述符：前/中/后
type descriptor int8

const (
	descNone descriptor = iota
	descFront
	descMiddle
	descRear
)

var glyphToDescriptor = map[rune]descriptor{
	'前': descFront,
	'中': descMiddle,
	'后': descRear, '後': descRear,
}

var descriptorGlyph = map[descriptor]rune{
	descFront:  '前',
	descMiddle: '中',
	descRear:   '后',
}

var chineseDigits = [10]rune{0, '一', '二', '三', '四', '五', '六', '七', '八', '九'}

// numeralValue 识别中文/阿拉伯数字 1..9；认不出返回 0。
// 全角数字在 normalize 阶段已折叠成半角。
func numeralValue(r rune) int {
	if r >= '1' && r <= '9' {
		return int(r - '0')
	}
	for v, d := range chineseDigits {
		if d == r {
			return v
		}
	}
	return 0
}

// numeralGlyph 按传统记谱习惯出数字：红用汉字，黑用阿拉伯数字。
func numeralGlyph(side xiangqi.Side, v int) rune {
	if v < 1 || v > 9 {
		return 0
	}
	if side == xiangqi.Black {
		return rune('0' + v)
	}
	return chineseDigits[v]
}

// normalize 折叠全角字符并去掉空白。
func normalize(text string) []rune {
	folded := width.Fold.String(strings.TrimSpace(text))
	var out []rune
	for _, r := range folded {
		if r == ' ' || r == '\t' {
			continue
		}
		out = append(out, r)
	}
	return out
}

// 列号换算：双方各自从自己的右手侧数 1..9。
// 红方 file f -> col 9-f；黑方 file f -> col f-1。
func fileToCol(side xiangqi.Side, file int) int {
	if side == xiangqi.Black {
		return file - 1
	}
	return 9 - file
}

func colToFile(side xiangqi.Side, col int) int {
	if side == xiangqi.Black {
		return col + 1
	}
	return 9 - col
}

// forwardSign 该方前进时行号的变化方向
func forwardSign(side xiangqi.Side) int {
	if side == xiangqi.Red {
		return -1
	}
	return +1
}
