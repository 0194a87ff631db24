package notation

import (
	"errors"
	"testing"

	"xiangqi/internal/xiangqi"
)

func mustDecode(t *testing.T, fen string) *xiangqi.Position {
	t.Helper()
	pos, err := xiangqi.DecodePosition(fen)
	if err != nil {
		t.Fatalf("decode %q: %v", fen, err)
	}
	return pos
}

func TestParseCentralCannonOpening(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	mv, err := Parse("炮二平五", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 红方二路 = 第 7 列；平五 = 中线第 4 列
	if mv.From != xiangqi.IndexOf(7, 7) {
		t.Fatalf("from = %d, want right cannon", mv.From)
	}
	if mv.To != xiangqi.IndexOf(7, 4) {
		t.Fatalf("to = %d, want center file", mv.To)
	}
}

func TestParseAcceptsVariantGlyphsAndNumerals(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	want, err := Parse("炮二平五", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse baseline: %v", err)
	}
	for _, text := range []string{
		"砲二平五",  // 异体字
		"炮2平5",  // 阿拉伯数字
		"炮 二 平 五", // 夹空格
		"炮２平５",  // 全角数字
	} {
		got, err := Parse(text, pos, xiangqi.Red)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if got.From != want.From || got.To != want.To {
			t.Fatalf("parse %q = %+v, want %+v", text, got, want)
		}
	}
}

func TestParseBlackUsesOwnFileNumbering(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	pos.SideToMove = xiangqi.Black
	mv, err := Parse("炮8平5", pos, xiangqi.Black)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 黑方第 8 路 = 第 7 列
	if mv.From != xiangqi.IndexOf(2, 7) {
		t.Fatalf("from = %d", mv.From)
	}
	if mv.To != xiangqi.IndexOf(2, 4) {
		t.Fatalf("to = %d", mv.To)
	}
}

func TestParseErrorsIdentifyToken(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	cases := []struct {
		text string
		kind TokenKind
	}{
		{"龟二平五", TokenPiece},     // 没有这个棋子
		{"炮十平五", TokenPosition},  // 列号越界
		{"炮二飞五", TokenAction},    // 不是进退平
		{"马二平三", TokenAction},    // 马不能平
		{"前炮退二", TokenPosition},  // 初始局面没有同列双炮
		{"炮二平二", TokenMagnitude}, // 平到原列
	}
	for _, tc := range cases {
		_, err := Parse(tc.text, pos, xiangqi.Red)
		if err == nil {
			t.Fatalf("parse %q: expected error", tc.text)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("parse %q: error %v is not a ParseError", tc.text, err)
		}
		if perr.Kind != tc.kind {
			t.Fatalf("parse %q: token kind = %s, want %s", tc.text, perr.Kind, tc.kind)
		}
	}
}

func TestFrontRearDescriptors(t *testing.T) {
	// 红方双炮同列（第 4 列 = 五路）
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/4C4/4C4/4K4 w")
	front, err := Parse("前炮进二", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse front: %v", err)
	}
	if front.From != xiangqi.IndexOf(7, 4) {
		t.Fatalf("front cannon from = %d", front.From)
	}
	rear, err := Parse("后炮平六", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse rear: %v", err)
	}
	if rear.From != xiangqi.IndexOf(8, 4) {
		t.Fatalf("rear cannon from = %d", rear.From)
	}
}

func TestMiddleDescriptorRequiresThreeOnFile(t *testing.T) {
	// 三兵同列才有「中」
	pos := mustDecode(t, "4k4/9/9/9/4P4/4P4/4P4/9/9/4K4 w")
	mv, err := Parse("中兵平六", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if mv.From != xiangqi.IndexOf(5, 4) {
		t.Fatalf("middle soldier from = %d", mv.From)
	}

	two := mustDecode(t, "4k4/9/9/9/9/4P4/4P4/9/9/4K4 w")
	if _, err := Parse("中兵平六", two, xiangqi.Red); err == nil {
		t.Fatal("middle descriptor with two on file should fail")
	}
}

func TestOrdinalSequenceAcrossTwoFiles(t *testing.T) {
	// 两列各两兵：本方视角从右到左、前到后连续编号。
	// 红方右路在列 8 一侧，第 2 列是三路、第 6 列是七路。
	pos := mustDecode(t, "4k4/9/9/9/9/2P3P2/2P3P2/9/9/4K4 w")
	seq := ordinalSequence(pos, xiangqi.Red, xiangqi.PieceSoldier)
	if len(seq) != 4 {
		t.Fatalf("sequence length = %d, want 4", len(seq))
	}
	want := []int{
		xiangqi.IndexOf(5, 6), // 一：右列前
		xiangqi.IndexOf(6, 6), // 二：右列后
		xiangqi.IndexOf(5, 2), // 三：左列前
		xiangqi.IndexOf(6, 2), // 四：左列后
	}
	for i, sq := range want {
		if seq[i] != sq {
			t.Fatalf("seq[%d] = %d, want %d", i, seq[i], sq)
		}
	}

	mv, err := Parse("三兵进一", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse ordinal: %v", err)
	}
	if mv.From != xiangqi.IndexOf(5, 2) || mv.To != xiangqi.IndexOf(4, 2) {
		t.Fatalf("ordinal move = %+v", mv)
	}
}

func TestAdvisorAbbreviatedForm(t *testing.T) {
	// 仕在 (9,3) 和 (7,3)：进退各只有一只能走，双字简式成立
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/3A5/9/3AK4 w")

	adv, err := Parse("仕进", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse abbreviated advance: %v", err)
	}
	if adv.From != xiangqi.IndexOf(9, 3) || adv.To != xiangqi.IndexOf(8, 4) {
		t.Fatalf("abbreviated advance = %+v", adv)
	}

	ret, err := Parse("仕退", pos, xiangqi.Red)
	if err != nil {
		t.Fatalf("parse abbreviated retreat: %v", err)
	}
	if ret.From != xiangqi.IndexOf(7, 3) || ret.To != xiangqi.IndexOf(8, 4) {
		t.Fatalf("abbreviated retreat = %+v", ret)
	}

	// 两仕都能进同一格：动作定不了子，简式应拒绝
	ambiguous := mustDecode(t, "4k4/9/9/9/9/9/9/9/9/3AKA3 w")
	if _, err := Parse("仕进", ambiguous, xiangqi.Red); err == nil {
		t.Fatal("ambiguous abbreviated advisor move should fail")
	}
}

func TestGenerateRoundTripOverLegalMoves(t *testing.T) {
	positions := []*xiangqi.Position{
		xiangqi.NewInitialPosition(),
		mustDecode(t, "4k4/9/9/9/9/2P3P2/2P3P2/9/9/4K4 w"),
		mustDecode(t, "4k4/9/9/9/9/9/9/4C4/4C4/4K4 w"),
		mustDecode(t, "4k4/4P4/4P4/4P4/4P4/9/9/9/9/4K4 w"),
		mustDecode(t, "2eak4/9/4e4/9/9/9/9/9/9/4K4 b"),
	}
	for pi, pos := range positions {
		for _, side := range []xiangqi.Side{xiangqi.Red, xiangqi.Black} {
			for _, mv := range pos.GenerateLegalMovesForSide(side) {
				text, err := Generate(pos, mv)
				if err != nil {
					t.Fatalf("position %d: generate %+v: %v", pi, mv, err)
				}
				got, err := Parse(text, pos, side)
				if err != nil {
					t.Fatalf("position %d: parse %q (from %+v): %v", pi, text, mv, err)
				}
				if got.From != mv.From || got.To != mv.To {
					t.Fatalf("position %d: round trip %q: got %+v, want %+v", pi, text, got, mv)
				}
			}
		}
	}
}

func TestGenerateUsesRedChineseBlackArabicNumerals(t *testing.T) {
	pos := xiangqi.NewInitialPosition()
	red, err := Generate(pos, xiangqi.Move{From: xiangqi.IndexOf(7, 7), To: xiangqi.IndexOf(7, 4)})
	if err != nil {
		t.Fatalf("generate red: %v", err)
	}
	if red != "炮二平五" {
		t.Fatalf("red notation = %q, want 炮二平五", red)
	}

	black, err := Generate(pos, xiangqi.Move{From: xiangqi.IndexOf(2, 7), To: xiangqi.IndexOf(2, 4)})
	if err != nil {
		t.Fatalf("generate black: %v", err)
	}
	if black != "炮8平5" {
		t.Fatalf("black notation = %q, want 炮8平5", black)
	}
}
