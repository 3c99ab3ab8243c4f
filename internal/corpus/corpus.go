package corpus

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/kdduha/kolam-knowledge/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultExplanation is returned when no record matches a query.
const DefaultExplanation = "Kolam is a traditional form of art practiced in South India. It involves drawing geometric patterns using rice flour, chalk, or rock powder. Kolams are typically drawn at the entrance of homes and are believed to bring prosperity and ward off evil spirits."

//go:embed corpus.yaml
var bundled []byte

type Record struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Image    string `yaml:"image,omitempty"`
}

// Corpus is an ordered, read-only list of records. The zero value is an
// empty corpus.
type Corpus struct {
	records []Record
}

func New(records []Record) (*Corpus, error) {
	for i, r := range records {
		if r.Question == "" {
			return nil, fmt.Errorf("record %d: question is empty", i)
		}
		if r.Image == "" {
			continue
		}
		if _, err := base64.StdEncoding.DecodeString(r.Image); err != nil {
			return nil, fmt.Errorf("record %d: invalid base64 image: %w", i, err)
		}
	}
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Corpus{records: cp}, nil
}

// Default returns the corpus bundled with the binary.
func Default() (*Corpus, error) {
	return Parse(bundled)
}

func Parse(data []byte) (*Corpus, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	return New(records)
}

func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return Parse(data)
}

// Load reads path when set and falls back to the bundled corpus otherwise.
func Load(path string) (*Corpus, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func (c *Corpus) Len() int {
	return len(c.records)
}

func (c *Corpus) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Lookup finds the first record loosely related to query. A record matches
// when its question contains the query, when the query contains the second
// word of its question, or when the query mentions "kolam" at all.
func (c *Corpus) Lookup(query string) models.KnowledgeAnswer {
	if query == "" {
		return models.KnowledgeAnswer{Explanation: DefaultExplanation}
	}

	q := strings.ToLower(query)
	for _, r := range c.records {
		question := strings.ToLower(r.Question)
		if strings.Contains(question, q) ||
			containsSecondWord(q, question) ||
			strings.Contains(q, "kolam") {
			return models.KnowledgeAnswer{Explanation: r.Answer, ImageBase64: r.Image}
		}
	}
	return models.KnowledgeAnswer{Explanation: DefaultExplanation}
}

func containsSecondWord(query, question string) bool {
	words := strings.Split(question, " ")
	if len(words) < 2 {
		return false
	}
	return strings.Contains(query, words[1])
}
