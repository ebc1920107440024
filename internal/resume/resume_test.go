package resume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/resume"
)

// ── Infer ──────────────────────────────────────────────────────────────────

func TestInfer_WholeWordsInKeywordOrder(t *testing.T) {
	skills, years := resume.Infer("Built services in Go and python; shipped React apps on AWS. 5+ years experience.")
	assert.Equal(t, []string{"React", "Python", "AWS", "Go"}, skills)
	assert.Equal(t, 5, years)
}

func TestInfer_WordBoundaries(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"JavaScript only", []string{"JavaScript"}},
		{"Java and JavaScript", []string{"JavaScript", "Java"}},
		{"Worked at Google", []string{}},
		{"C++, Node.js", []string{"Node.js", "C++"}},
		{"MySQL admin", []string{}},
		{"next.js/tailwind", []string{"Tailwind", "Next.js"}},
	}
	for _, c := range cases {
		got, _ := resume.Infer(c.text)
		assert.Equal(t, c.want, got, c.text)
	}
}

func TestInfer_Experience(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"3 years of Go", 3},
		{"10+ Years", 10},
		{"1 year", 1},
		{"2yrs", 0},
		{"no figure here", 0},
		{"7 years then 12 years", 7},
	}
	for _, c := range cases {
		_, got := resume.Infer(c.text)
		assert.Equal(t, c.want, got, c.text)
	}
}

func TestInfer_NormalisesCompatibilityForms(t *testing.T) {
	// Fullwidth letters fold to ASCII under NFKC.
	skills, _ := resume.Infer("Ｄｏｃｋｅｒ")
	assert.Equal(t, []string{"Docker"}, skills)
}

// ── Extract ────────────────────────────────────────────────────────────────

func TestExtract_PlainText(t *testing.T) {
	ex, err := resume.Extract("cv.txt", []byte("Kubernetes, SQL. 4 years."))
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes, SQL. 4 years.", ex.RawText)
	assert.Equal(t, []string{"SQL", "Kubernetes"}, ex.InferredSkills)
	assert.Equal(t, 4, ex.InferredExperienceYears)
}

func TestExtract_Rejects(t *testing.T) {
	_, err := resume.Extract("cv.exe", []byte("x"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidInput))

	_, err = resume.Extract("cv.pdf", []byte("not a pdf"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidInput))

	_, err = resume.Extract("cv.docx", []byte("not a zip"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidInput))
}
