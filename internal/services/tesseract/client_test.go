package tesseract

import "testing"

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t1920\t1080\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t100\t50\t300\t24\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t100\t50\t64\t24\t96.5\tFile\n" +
	"5\t1\t1\t1\t1\t2\t180\t50\t64\t24\t91.2\tEdit\n" +
	"5\t1\t1\t1\t1\t3\t260\t50\t64\t24\t40.0\t \n"

func TestParseTSVKeepsWordRows(t *testing.T) {
	words := parseTSV(sampleTSV)

	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	first := words[0]
	if first.Text != "File" {
		t.Errorf("text = %q, want File", first.Text)
	}
	if first.X != 100 || first.Y != 50 || first.Width != 64 || first.Height != 24 {
		t.Errorf("bbox = (%d,%d,%d,%d)", first.X, first.Y, first.Width, first.Height)
	}
	if first.Confidence != 96.5 {
		t.Errorf("confidence = %v, want 96.5", first.Confidence)
	}
	if words[1].Text != "Edit" {
		t.Errorf("second word = %q, want Edit", words[1].Text)
	}
}

func TestParseTSVToleratesMalformedRows(t *testing.T) {
	words := parseTSV("level\tpage\n5\tonly-two-columns\nnot-a-number\t\t\t\t\t\t\t\t\t\t\tword\n")
	if len(words) != 0 {
		t.Fatalf("expected malformed rows dropped, got %d words", len(words))
	}
}

func TestParseTSVEmptyOutput(t *testing.T) {
	if words := parseTSV(""); len(words) != 0 {
		t.Fatalf("expected no words, got %d", len(words))
	}
}
