package history

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/lotofacil/internal/model"
)

const (
	sniffSize     = 4096
	firstBallCol  = 2
	minRecordCols = firstBallCol + model.DrawSize
)

// DateLayouts are accepted for the date column, in order.
var DateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

var digitGroup = regexp.MustCompile(`[0-9]{1,2}`)

// LoadResult is the outcome of reading a results file.
type LoadResult struct {
	Records []model.DrawRecord
	Skipped int
}

// LoadCSV reads a results CSV from path.
func LoadCSV(path string) (LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only results file.
			_ = cerr
		}
	}()
	return ReadCSV(file)
}

// ReadCSV parses rows of contest, date and 15 ball columns. The separator is
// ';' when it outnumbers ',' in the first 4 KiB. Rows without a contest
// number or 15 valid balls are skipped and counted. Records come back in
// ascending contest order; a repeated contest keeps its last row.
func ReadCSV(r io.Reader) (LoadResult, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	sample, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return LoadResult{}, fmt.Errorf("failed to read results: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectSeparator(sample)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	set := NewSet()
	res := LoadResult{}
	var ballCols []int
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Skipped++
				continue
			}
			return LoadResult{}, fmt.Errorf("failed to read results: %w", err)
		}
		row++
		if row == 1 {
			fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
		}
		if blank(fields) {
			continue
		}
		if row == 1 && isHeader(fields) {
			ballCols = headerBallColumns(fields)
			continue
		}
		rec, ok := parseRow(fields, ballCols)
		if !ok {
			res.Skipped++
			continue
		}
		set.Add(rec)
	}
	res.Records = set.Records()
	return res, nil
}

func detectSeparator(sample []byte) rune {
	if bytes.Count(sample, []byte{';'}) > bytes.Count(sample, []byte{','}) {
		return ';'
	}
	return ','
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func isHeader(fields []string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	return err != nil
}

// headerBallColumns locates "Bola" columns when the file does not carry the
// standard 17-column layout.
func headerBallColumns(header []string) []int {
	if len(header) >= minRecordCols {
		return nil
	}
	var cols []int
	for i, name := range header {
		if strings.Contains(strings.ToLower(name), "bola") {
			cols = append(cols, i)
		}
	}
	if len(cols) > model.DrawSize {
		cols = cols[:model.DrawSize]
	}
	return cols
}

func parseRow(fields []string, ballCols []int) (model.DrawRecord, bool) {
	contest, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || contest <= 0 {
		return model.DrawRecord{}, false
	}
	if ballCols == nil {
		if len(fields) < minRecordCols {
			return model.DrawRecord{}, false
		}
		ballCols = make([]int, model.DrawSize)
		for i := range ballCols {
			ballCols[i] = firstBallCol + i
		}
	}

	numbers := make([]int, 0, model.DrawSize)
	for _, col := range ballCols {
		if col >= len(fields) {
			continue
		}
		if n, ok := ParseBall(fields[col]); ok {
			numbers = append(numbers, n)
		}
		if len(numbers) == model.DrawSize {
			break
		}
	}
	draw, err := model.NewDraw(numbers)
	if err != nil {
		return model.DrawRecord{}, false
	}

	var date time.Time
	if len(fields) > 1 {
		date = ParseDate(fields[1])
	}
	return model.DrawRecord{Contest: contest, Date: date, Draw: draw}, true
}

// ParseBall reads the first one- or two-digit group of a cell as a number in
// 1..25.
func ParseBall(cell string) (int, bool) {
	m := digitGroup.FindString(cell)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < model.MinNumber || n > model.MaxNumber {
		return 0, false
	}
	return n, true
}

// ParseDate tries every layout in DateLayouts. Unparseable dates yield the
// zero time.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// WriteCSV writes records with a Concurso,Data,Bola1..Bola15 header.
func WriteCSV(w io.Writer, records []model.DrawRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"Concurso", "Data"}
	for i := 1; i <= model.DrawSize; i++ {
		header = append(header, fmt.Sprintf("Bola%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.Contest), ""}
		if !r.Date.IsZero() {
			row[1] = r.Date.Format(DateLayouts[0])
		}
		for _, n := range r.Draw.Numbers() {
			row = append(row, strconv.Itoa(n))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
