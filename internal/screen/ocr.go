// ABOUTME: OCR text locator abstraction plus the id/text table renderer fed to the text-locator LLM
// ABOUTME: OCR engine is an external collaborator per spec; a tesseract-TSV adapter is provided as a concrete instance

package screen

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// OcrElement is one OCR-detected word, with a bounding box in source-image
// pixel coordinates. id is a 0-based index stable within a single OCR call only.
type OcrElement struct {
	ID     int
	Text   string
	Left   int
	Top    int
	Width  int
	Height int
}

// TextLocator runs OCR over an image and returns elements left-to-right,
// top-to-bottom.
type TextLocator interface {
	OCR(image []byte) ([]OcrElement, error)
}

// TesseractLocator shells out to the tesseract CLI with TSV output.
type TesseractLocator struct{}

// NewTesseractLocator returns a TesseractLocator, or an error if tesseract
// is not installed.
func NewTesseractLocator() (*TesseractLocator, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("tesseract not found on PATH")
	}
	return &TesseractLocator{}, nil
}

func (t *TesseractLocator) OCR(image []byte) ([]OcrElement, error) {
	f, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating OCR temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(image); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing OCR temp file: %w", err)
	}
	f.Close()

	var out bytes.Buffer
	cmd := exec.Command("tesseract", f.Name(), "stdout", "tsv")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	return parseTesseractTSV(out.Bytes()), nil
}

// parseTesseractTSV parses tesseract's TSV output format (one row per word
// plus intermediate page/block/paragraph/line rows with empty text),
// cleans each word, and orders elements left-to-right, top-to-bottom.
func parseTesseractTSV(data []byte) []OcrElement {
	type raw struct {
		left, top, width, height, lineNum, blockNum int
		text                                        string
	}
	var rows []raw

	scanner := bufio.NewScanner(bytes.NewReader(data))
	header := true
	for scanner.Scan() {
		line := scanner.Text()
		if header {
			header = false
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 12 {
			continue
		}
		text := strings.TrimSpace(fields[11])
		cleaned := CleanOcrText(text)
		if cleaned == "" {
			continue
		}
		left, _ := strconv.Atoi(fields[6])
		top, _ := strconv.Atoi(fields[7])
		width, _ := strconv.Atoi(fields[8])
		height, _ := strconv.Atoi(fields[9])
		blockNum, _ := strconv.Atoi(fields[2])
		lineNum, _ := strconv.Atoi(fields[4])
		rows = append(rows, raw{left, top, width, height, lineNum, blockNum, cleaned})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].top != rows[j].top {
			return rows[i].top < rows[j].top
		}
		return rows[i].left < rows[j].left
	})

	elements := make([]OcrElement, 0, len(rows))
	for i, r := range rows {
		elements = append(elements, OcrElement{
			ID: i, Text: r.text, Left: r.left, Top: r.top, Width: r.width, Height: r.height,
		})
	}
	return elements
}

// keepInOcrText is the set of non-alphabetic runes CleanOcrText preserves.
var keepInOcrText = map[rune]bool{
	' ': true, '.': true, '!': true, '?': true, ';': true, ':': true, '-': true, '+': true,
}

// CleanOcrText strips leading/trailing characters that are neither
// alphabetic nor in the punctuation set {space, . ! ? ; : - +}.
func CleanOcrText(s string) string {
	runes := []rune(s)
	start, end := 0, len(runes)
	for start < end && !isKeepRune(runes[start]) {
		start++
	}
	for end > start && !isKeepRune(runes[end-1]) {
		end--
	}
	return string(runes[start:end])
}

func isKeepRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return keepInOcrText[r]
}

// RenderOcrTable produces a two-column "id \t cleaned-text" table, with
// rune-width-aware padding so the id column stays aligned for the
// text-locator LLM even when ids run past single digits.
func RenderOcrTable(elements []OcrElement) string {
	if len(elements) == 0 {
		return ""
	}
	maxIDWidth := runewidth.StringWidth(strconv.Itoa(len(elements) - 1))

	var b strings.Builder
	for _, el := range elements {
		idStr := strconv.Itoa(el.ID)
		pad := maxIDWidth - runewidth.StringWidth(idStr)
		b.WriteString(idStr)
		for i := 0; i < pad; i++ {
			b.WriteByte(' ')
		}
		b.WriteByte('\t')
		b.WriteString(el.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
