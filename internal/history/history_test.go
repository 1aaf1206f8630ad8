package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/lotofacil/internal/model"
)

func seqRecord(contest, start int) model.DrawRecord {
	numbers := make([]int, model.DrawSize)
	for i := range numbers {
		numbers[i] = start + i
	}
	return model.DrawRecord{Contest: contest, Draw: model.MustDraw(numbers...)}
}

func TestReadCSVSemicolon(t *testing.T) {
	data := strings.Join([]string{
		"Concurso;Data;Bola1;Bola2;Bola3;Bola4;Bola5;Bola6;Bola7;Bola8;Bola9;Bola10;Bola11;Bola12;Bola13;Bola14;Bola15",
		"2;30/09/2003;01;04;05;06;07;09;11;12;13;15;16;19;20;23;24",
		"1;29/09/2003;02;03;05;06;09;10;11;13;14;16;18;20;23;24;25",
		"3;02/10/2003;1;2;3;4;5;6;7;8;9;10;11;12;13;14;99",
		"x;03/10/2003;1;2;3;4;5;6;7;8;9;10;11;12;13;14;15",
		"4;;bola 01;02;03;04;05;06;07;08;09;10;11;12;13;14;15",
		"",
	}, "\n")

	res, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if res.Skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", res.Skipped)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	if res.Records[0].Contest != 1 || res.Records[1].Contest != 2 || res.Records[2].Contest != 4 {
		t.Fatalf("records not sorted by contest: %+v", res.Records)
	}
	if !res.Records[0].Date.Equal(time.Date(2003, 9, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", res.Records[0].Date)
	}
	if !res.Records[2].Date.IsZero() {
		t.Fatalf("blank date should be zero, got %v", res.Records[2].Date)
	}
	if got := res.Records[1].Draw.String(); got != "01 04 05 06 07 09 11 12 13 15 16 19 20 23 24" {
		t.Fatalf("unexpected draw %s", got)
	}
}

func TestReadCSVCommaWithoutHeader(t *testing.T) {
	data := "5,2024-01-05,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15\n" +
		"5,2024-01-05,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25\n"
	res, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(res.Records) != 1 || res.Skipped != 0 {
		t.Fatalf("expected a single deduplicated record, got %+v", res)
	}
	if res.Records[0].Draw.Numbers()[0] != 11 {
		t.Fatalf("last row for a contest should win, got %s", res.Records[0].Draw)
	}
}

func TestReadCSVBallHeaders(t *testing.T) {
	header := []string{"Concurso"}
	row := []string{"7"}
	for i := 1; i <= model.DrawSize; i++ {
		header = append(header, fmt.Sprintf("Bola%d", i))
		row = append(row, fmt.Sprintf("%02d", i+10))
	}
	data := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"

	res, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(res.Records) != 1 || res.Skipped != 0 {
		t.Fatalf("expected ball columns from header, got %+v", res)
	}
	if res.Records[0].Draw.Numbers()[0] != 11 {
		t.Fatalf("unexpected draw %s", res.Records[0].Draw)
	}
}

func TestDetectSeparator(t *testing.T) {
	if detectSeparator([]byte("a;b;c,d")) != ';' {
		t.Fatalf("expected semicolon")
	}
	if detectSeparator([]byte("a;b,c,d")) != ',' {
		t.Fatalf("expected comma")
	}
	if detectSeparator([]byte("a;b,c")) != ',' {
		t.Fatalf("ties should fall back to comma")
	}
}

func TestParseBall(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"07", 7, true},
		{" 25 ", 25, true},
		{"bola 3", 3, true},
		{"26", 0, false},
		{"0", 0, false},
		{"", 0, false},
		{"123", 12, true},
	}
	for _, tc := range cases {
		got, ok := ParseBall(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseBall(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestWriteAndLoadCSV(t *testing.T) {
	records := []model.DrawRecord{seqRecord(1, 1), seqRecord(2, 5)}
	records[0].Date = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	res, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if len(res.Records) != 2 || !res.Records[0].Date.Equal(records[0].Date) {
		t.Fatalf("unexpected records %+v", res.Records)
	}
	if res.Records[1].Draw.String() != records[1].Draw.String() {
		t.Fatalf("draw mismatch: %s", res.Records[1].Draw)
	}
}

func TestSetMerge(t *testing.T) {
	s := NewSet(seqRecord(3, 3), seqRecord(1, 1))
	if added := s.Add(seqRecord(2, 2), seqRecord(3, 9)); added != 1 {
		t.Fatalf("expected 1 new contest, got %d", added)
	}
	if s.Len() != 3 || s.Latest() != 3 {
		t.Fatalf("unexpected set: len=%d latest=%d", s.Len(), s.Latest())
	}
	r, ok := s.Get(3)
	if !ok || r.Draw.Numbers()[0] != 9 {
		t.Fatalf("contest 3 should be replaced, got %v", r.Draw)
	}
	after := s.After(1)
	if len(after) != 2 || after[0].Contest != 2 {
		t.Fatalf("unexpected After(1): %+v", after)
	}
	missing := s.Missing(1, 5)
	if len(missing) != 2 || missing[0] != 4 || missing[1] != 5 {
		t.Fatalf("unexpected missing contests %v", missing)
	}
	if NewSet().Latest() != 0 {
		t.Fatalf("empty set latest should be 0")
	}
}
