// Package resume turns an uploaded resume into plain text and infers skills
// and years of experience from it.
package resume

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"golang.org/x/text/unicode/norm"

	apperrors "hireinn/jobboard-service/internal/errors"
)

// Extraction is the result of reading one resume.
type Extraction struct {
	RawText                 string   `json:"rawText"`
	InferredSkills          []string `json:"inferredSkills"`
	InferredExperienceYears int      `json:"inferredExperienceYears"`
}

// SetLicenseKey registers a metered unipdf key. PDF extraction needs one.
func SetLicenseKey(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("unipdf license: %w", err)
	}
	return nil
}

// Extract reads filename's content by extension and infers from the text.
func Extract(filename string, data []byte) (Extraction, error) {
	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = pdfText(data)
	case ".docx":
		text, err = docxText(data)
	case ".txt", ".md", "":
		text = string(data)
	default:
		return Extraction{}, apperrors.InvalidInput(fmt.Sprintf("unsupported resume type %q", ext), nil)
	}
	if err != nil {
		return Extraction{}, apperrors.InvalidInput("could not read resume", err)
	}

	text = norm.NFKC.String(text)
	skills, years := Infer(text)
	return Extraction{RawText: text, InferredSkills: skills, InferredExperienceYears: years}, nil
}

func pdfText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("page count: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("extractor page %d: %w", i, err)
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
